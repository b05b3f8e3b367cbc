package aggregate

import (
	"math"
	"testing"

	"github.com/de-tools/sim-reporting/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEstimator(t *testing.T) {
	tests := []struct {
		in      string
		want    Estimator
		wantErr bool
	}{
		{in: "mean", want: Mean},
		{in: "Median", want: Median},
		{in: " MEAN ", want: Mean},
		{in: "mode", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEstimator(tt.in)
			if tt.wantErr {
				assert.ErrorContains(t, err, "unknown estimator")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEstimator_Apply(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name   string
		e      Estimator
		values []float64
		want   float64
	}{
		{name: "mean", e: Mean, values: []float64{200, 500, 5000}, want: 1900},
		{name: "median odd", e: Median, values: []float64{5000, 200, 500}, want: 500},
		{name: "median even", e: Median, values: []float64{4, 1, 3, 2}, want: 2.5},
		{name: "median single", e: Median, values: []float64{7}, want: 7},
		{name: "skips missing", e: Mean, values: []float64{nan, 2, 4}, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.e.Apply(tt.values), 1e-9)
		})
	}

	assert.True(t, math.IsNaN(Mean.Apply(nil)))
	assert.True(t, math.IsNaN(Median.Apply([]float64{nan})))
}

func TestEstimator_ApplyDoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Median.Apply(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{math.NaN(), 200, 5000, 500}, Median)

	assert.Equal(t, Summary{Count: 3, Min: 200, Estimate: 500, Max: 5000}, s)

	empty := Summarize(nil, Mean)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, math.IsNaN(empty.Estimate))
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		quant  float64
		want   []int
	}{
		{name: "right closed bins", values: []float64{0, 300, 600}, quant: 300, want: []int{0, 0, 1}},
		{name: "hours of delivery", values: []float64{0, 60, 3600, 7200}, quant: 300, want: []int{0, 0, 11, 23}},
		{name: "half bin count rounds to even", values: []float64{0, 250, 500, 750}, quant: 300, want: []int{0, 0, 1, 1}},
		{name: "constant values", values: []float64{5, 5}, quant: 300, want: []int{0, 0}},
		{name: "quant wider than range", values: []float64{0, 10, 20}, quant: 300, want: []int{0, 0, 0}},
		{name: "missing", values: []float64{math.NaN(), 0, 600}, quant: 300, want: []int{-1, 0, 1}},
		{name: "all missing", values: []float64{math.NaN()}, quant: 300, want: []int{-1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Quantize(tt.values, tt.quant))
		})
	}
}

func TestQuantHours(t *testing.T) {
	assert.Equal(t, 0.0, QuantHours(0, 300))
	assert.Equal(t, 1.0, QuantHours(12, 300))
	assert.InDelta(t, 0.25, QuantHours(3, 300), 1e-12)
}

func TestSeriesByGroup(t *testing.T) {
	// Given: two groups with repeated x values
	tbl := domain.NewTable()
	add := func(group string, x, y float64) {
		row := domain.Row{}
		row.Set("group", domain.Text(group))
		row.Set("x", domain.Number(x))
		row.Set("y", domain.Number(y))
		tbl.AppendRow(row)
	}
	add("B", 1, 10)
	add("A", 0, 1)
	add("B", 0, 2)
	add("B", 1, 30)
	add("A", 0, 3)

	// When
	series := SeriesByGroup(tbl, "group", "x", "y", Mean)

	// Then
	require.Len(t, series, 2)
	assert.Equal(t, Series{Name: "B", X: []float64{0, 1}, Y: []float64{2, 20}}, series[0])
	assert.Equal(t, Series{Name: "A", X: []float64{0}, Y: []float64{2}}, series[1])
}
