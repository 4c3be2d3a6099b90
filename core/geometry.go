package core

import (
	"math"

	"github.com/huangsam/dashline/schema"
)

// Chart layout constants, in pixels.
const (
	DefaultChartHeight   = 300.0
	chartPaddingTop      = 10.0
	chartPaddingBottom   = 20.0
	chartPaddingLeft     = 40.0
	chartPaddingRight    = 10.0
	overlayAxisExtraRoom = 30.0
)

// ComputeChartGeometry lays out a chart of the given container width.
// The legend sits below the plot and adds its height to both the chart and
// the bottom padding. A visible overlay reserves room for a right-hand axis.
func ComputeChartGeometry(containerWidth, chartHeight float64, legend schema.LegendLayout, showOverlay bool) schema.Geometry {
	if chartHeight <= 0 {
		chartHeight = DefaultChartHeight
	}
	legendHeight := float64(legend.TotalHeight)
	g := schema.Geometry{
		Width:         containerWidth,
		Height:        chartHeight + legendHeight,
		PaddingTop:    chartPaddingTop,
		PaddingLeft:   chartPaddingLeft,
		PaddingRight:  chartPaddingRight,
		PaddingBottom: chartPaddingBottom + legendHeight,
	}
	if showOverlay {
		g.PaddingRight += overlayAxisExtraRoom
	}
	g.PlotWidth = g.Width - g.PaddingLeft - g.PaddingRight
	g.PlotHeight = g.Height - g.PaddingTop - g.PaddingBottom
	return g
}

// AxisScale describes the ticks of a time axis.
type AxisScale struct {
	Count  int               `json:"count"`
	Layout string            `json:"layout"`
	Ticks  []schema.AxisTick `json:"ticks"`
}

// AxisTicks picks the tick count and label layout for a time axis of the given
// width, then spreads the ticks evenly over the time span of the lines.
// Narrow charts get fewer ticks and no seconds.
func AxisTicks[T schema.Metadata](lines []schema.Line[T], width float64) AxisScale {
	most := 0
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, l := range lines {
		most = max(most, len(l.Points))
		for _, p := range l.Points {
			if !p.X.IsTime() {
				continue
			}
			lo = math.Min(lo, p.X.Value)
			hi = math.Max(hi, p.X.Value)
		}
	}

	scale := AxisScale{Layout: "15:04:05", Count: min(15, most)}
	switch {
	case width < 500:
		scale.Layout, scale.Count = "15:04", min(5, most)
	case width < 700:
		scale.Layout, scale.Count = "15:04", min(10, most)
	}

	if scale.Count == 0 || math.IsInf(lo, 1) {
		scale.Ticks = []schema.AxisTick{}
		return scale
	}
	scale.Ticks = make([]schema.AxisTick, scale.Count)
	step := 0.0
	if scale.Count > 1 {
		step = (hi - lo) / float64(scale.Count-1)
	}
	for i := range scale.Ticks {
		x := schema.MillisX(math.Floor(lo + float64(i)*step))
		scale.Ticks[i] = schema.AxisTick{X: x, Label: x.Time().Format(scale.Layout)}
	}
	return scale
}
