package graph

import (
	"bytes"
	"math"
	"testing"

	"github.com/de-tools/sim-reporting/pkg/services/aggregate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("SVG")
	require.NoError(t, err)
	assert.Equal(t, SVG, f)

	_, err = ParseFormat("pdf")
	assert.ErrorContains(t, err, "unsupported graph format")
}

func TestLineChart_Render(t *testing.T) {
	lc := LineChart{
		Title:  "Message Delay",
		XLabel: "Delivery Delay [h]",
		YLabel: "Messages",
		Series: []aggregate.Series{
			{Name: "G1", X: []float64{0, 0.5, 1}, Y: []float64{0.1, 0.4, 0.9}},
			{Name: "G2", X: []float64{0, 1}, Y: []float64{0.2, math.NaN()}},
		},
	}

	t.Run("png", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, lc.Render(&buf, PNG, DefaultSize))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
	})

	t.Run("svg", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, lc.Render(&buf, SVG, Size{Width: 640, Height: 480}))
		assert.Contains(t, buf.String(), "<svg")
	})
}

func TestLineChart_SinglePoint(t *testing.T) {
	lc := LineChart{Series: []aggregate.Series{{Name: "G1", X: []float64{0}, Y: []float64{3}}}}

	var buf bytes.Buffer
	err := lc.Render(&buf, PNG, DefaultSize)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestLineChart_NoData(t *testing.T) {
	var buf bytes.Buffer
	err := LineChart{Series: []aggregate.Series{{Name: "G1"}}}.Render(&buf, PNG, DefaultSize)
	assert.ErrorIs(t, err, errNoData)
}

func TestBarChart_Render(t *testing.T) {
	tests := []struct {
		name string
		bc   BarChart
	}{
		{
			name: "per group with range",
			bc: BarChart{Title: "Delivered", Bars: []Bar{
				{Label: "G1", Value: 100, Min: 100, Max: 100},
				{Label: "G2", Value: 500, Min: 200, Max: 5000},
			}},
		},
		{
			name: "equal bars from zero",
			bc: BarChart{Title: "Created", FromZero: true, Bars: []Bar{
				{Label: "S1", Value: 98, Min: math.NaN(), Max: math.NaN()},
				{Label: "S2", Value: 98, Min: math.NaN(), Max: math.NaN()},
			}},
		},
		{
			name: "equal bars",
			bc:   BarChart{Bars: []Bar{{Label: "S1", Value: 0}, {Label: "S2", Value: 0}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.bc.Render(&buf, PNG, DefaultSize))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
		})
	}
}

func TestBarChart_NoData(t *testing.T) {
	var buf bytes.Buffer
	err := BarChart{Bars: []Bar{{Label: "S1", Value: math.NaN()}}}.Render(&buf, SVG, DefaultSize)
	assert.ErrorIs(t, err, errNoData)
}

func TestBarLabel(t *testing.T) {
	assert.Equal(t, "G1", barLabel(Bar{Label: "G1", Value: 1, Min: 1, Max: 1}))
	assert.Equal(t, "G2 [200..5000]", barLabel(Bar{Label: "G2", Value: 500, Min: 200, Max: 5000}))
	assert.Equal(t, "G3 [0.25..0.95]", barLabel(Bar{Label: "G3", Value: 0.3, Min: 0.25, Max: 0.95}))
}

func TestPaddedRange(t *testing.T) {
	r := paddedRange(5, 5)
	assert.Less(t, r.Min, 5.0)
	assert.Greater(t, r.Max, 5.0)

	r = paddedRange(0, 0)
	assert.Equal(t, -1.0, r.Min)
	assert.Equal(t, 1.0, r.Max)
}
