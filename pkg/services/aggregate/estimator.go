package aggregate

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Estimator reduces the values of one column to a single statistic.
type Estimator string

const (
	Mean   Estimator = "mean"
	Median Estimator = "median"
)

// Estimators lists the supported estimators.
var Estimators = []Estimator{Mean, Median}

// ParseEstimator accepts an estimator name in any case.
func ParseEstimator(name string) (Estimator, error) {
	e := Estimator(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Estimators {
		if e == known {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown estimator %q, expected one of %v", name, Estimators)
}

// Apply reduces values, ignoring NaN. It returns NaN when nothing is left.
func (e Estimator) Apply(values []float64) float64 {
	vals := present(values)
	if len(vals) == 0 {
		return math.NaN()
	}

	switch e {
	case Median:
		return median(vals)
	default:
		return stat.Mean(vals, nil)
	}
}

func median(vals []float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return stat.Quantile(0.5, stat.Empirical, sorted, nil)
	}
	return stat.Mean(sorted[n/2-1:n/2+1], nil)
}

func present(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Summary is the count, extremes and estimate of one column.
type Summary struct {
	Count    int
	Min      float64
	Estimate float64
	Max      float64
}

// Summarize describes values, ignoring NaN.
func Summarize(values []float64, e Estimator) Summary {
	vals := present(values)
	if len(vals) == 0 {
		return Summary{Min: math.NaN(), Estimate: math.NaN(), Max: math.NaN()}
	}
	return Summary{
		Count:    len(vals),
		Min:      floats.Min(vals),
		Estimate: e.Apply(vals),
		Max:      floats.Max(vals),
	}
}
