package aggregate

import (
	"math"
	"sort"

	"github.com/de-tools/sim-reporting/pkg/models/domain"
	"gonum.org/v1/gonum/floats"
)

const secondsPerHour = 3600.0

// Quantize assigns every value to one of round((max-min)/quant) equal-width bins
// spanning [min, max], rounding halves to even. Bins are right-closed and there is
// always at least one.
// Missing values get bin -1.
func Quantize(values []float64, quant float64) []int {
	bins := make([]int, len(values))
	vals := present(values)
	if len(vals) == 0 {
		for i := range bins {
			bins[i] = -1
		}
		return bins
	}

	lo, hi := floats.Min(vals), floats.Max(vals)
	n := 1
	if quant > 0 {
		n = max(1, int(math.RoundToEven((hi-lo)/quant)))
	}
	width := (hi - lo) / float64(n)

	for i, v := range values {
		switch {
		case math.IsNaN(v):
			bins[i] = -1
		case width == 0 || v <= lo:
			bins[i] = 0
		default:
			b := int(math.Ceil((v-lo)/width)) - 1
			bins[i] = min(max(b, 0), n-1)
		}
	}
	return bins
}

// QuantHours converts a bin index to hours.
func QuantHours(bin int, quant float64) float64 {
	return float64(bin) * quant / secondsPerHour
}

// Series is one plotted line.
type Series struct {
	Name string
	X    []float64
	Y    []float64
}

// SeriesByGroup groups rows by the group column and x, reducing y with e.
// Series follow the order groups first appear in; points are sorted by x.
func SeriesByGroup(t *domain.Table, groupCol, x, y string, e Estimator) []Series {
	groups := t.Texts(groupCol)
	xs := t.Floats(x)
	ys := t.Floats(y)

	var order []string
	points := make(map[string]map[float64][]float64)
	for i := range groups {
		if i >= len(xs) || i >= len(ys) || math.IsNaN(xs[i]) {
			continue
		}
		g := groups[i]
		byX, ok := points[g]
		if !ok {
			byX = make(map[float64][]float64)
			points[g] = byX
			order = append(order, g)
		}
		byX[xs[i]] = append(byX[xs[i]], ys[i])
	}

	out := make([]Series, 0, len(order))
	for _, g := range order {
		byX := points[g]
		s := Series{Name: g}
		for xv := range byX {
			s.X = append(s.X, xv)
		}
		sort.Float64s(s.X)
		for _, xv := range s.X {
			s.Y = append(s.Y, e.Apply(byX[xv]))
		}
		out = append(out, s)
	}
	return out
}
