package core

import (
	"testing"

	"github.com/huangsam/dashline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeChartGeometry(t *testing.T) {
	legend := schema.LegendLayout{TotalHeight: 45}

	g := ComputeChartGeometry(800, 0, legend, false)
	assert.Equal(t, schema.Geometry{
		Width:         800,
		Height:        345,
		PaddingTop:    10,
		PaddingLeft:   40,
		PaddingRight:  10,
		PaddingBottom: 65,
		PlotWidth:     750,
		PlotHeight:    270,
	}, g)

	withOverlay := ComputeChartGeometry(800, 200, legend, true)
	assert.Equal(t, 40.0, withOverlay.PaddingRight)
	assert.Equal(t, 720.0, withOverlay.PlotWidth)
	assert.Equal(t, 245.0, withOverlay.Height)
	assert.Equal(t, 170.0, withOverlay.PlotHeight)

	x, y := g.ToPlot(140, 60)
	assert.Equal(t, 100.0, x)
	assert.Equal(t, 50.0, y)
}

func minuteLine(n int) []schema.Line[schema.LineInfo] {
	points := make([]schema.DataPoint, n)
	for i := range points {
		points[i] = schema.DataPoint{X: schema.MillisX(float64(i * 60_000)), Y: float64(i)}
	}
	return []schema.Line[schema.LineInfo]{BuildLine(points, schema.LineInfo{Name: "m"})}
}

func TestAxisTicks(t *testing.T) {
	tests := []struct {
		name   string
		points int
		width  float64
		count  int
		layout string
	}{
		{"narrow", 20, 400, 5, "15:04"},
		{"medium", 20, 600, 10, "15:04"},
		{"wide", 20, 900, 15, "15:04:05"},
		{"few points", 3, 900, 3, "15:04:05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scale := AxisTicks(minuteLine(tt.points), tt.width)
			assert.Equal(t, tt.count, scale.Count)
			assert.Equal(t, tt.layout, scale.Layout)
			assert.Len(t, scale.Ticks, tt.count)
		})
	}
}

func TestAxisTicksSpread(t *testing.T) {
	scale := AxisTicks(minuteLine(20), 400)
	require.Len(t, scale.Ticks, 5)
	assert.Equal(t, "00:00", scale.Ticks[0].Label)
	assert.Equal(t, "00:19", scale.Ticks[4].Label)
	assert.Equal(t, schema.MillisX(285_000), scale.Ticks[1].X)
}

func TestAxisTicksWithoutTimeValues(t *testing.T) {
	lines := []schema.Line[schema.LineInfo]{
		BuildLine([]schema.DataPoint{{X: schema.OrdinalX(0), Y: 1}}, schema.LineInfo{Name: "s"}),
	}
	assert.Empty(t, AxisTicks(lines, 900).Ticks)
	assert.Empty(t, AxisTicks([]schema.Line[schema.LineInfo]{}, 900).Ticks)
}
