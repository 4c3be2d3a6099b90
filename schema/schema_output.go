package schema

import "time"

// ChartResult is the built form of one chart, ready for output.
type ChartResult struct {
	Chart    string                    `json:"chart"`
	Unit     string                    `json:"unit"`
	AxisMode AxisMode                  `json:"axisMode"`
	Lines    []Line[LineInfo]          `json:"lines"`
	Buckets  [][]BucketPoint[LineInfo] `json:"buckets,omitempty"`
	Legend   LegendLayout              `json:"legend"`
}

// PointCount returns the number of points across all lines.
func (r ChartResult) PointCount() int {
	total := 0
	for _, l := range r.Lines {
		total += len(l.Points)
	}
	return total
}

// ClosestResult is the answer to a hit-test on a chart.
type ClosestResult struct {
	Chart    string          `json:"chart"`
	Found    bool            `json:"found"`
	Datum    Datum[LineInfo] `json:"datum,omitzero"`
	PlotX    float64         `json:"plotX"`
	PlotY    float64         `json:"plotY"`
	Geometry Geometry        `json:"geometry"`
}

// LegendResult is the legend and plot layout of one chart.
type LegendResult struct {
	Chart      string       `json:"chart"`
	Labels     []string     `json:"labels"`
	Layout     LegendLayout `json:"layout"`
	Geometry   Geometry     `json:"geometry"`
	TickLayout string       `json:"tickLayout"`
	Ticks      []AxisTick   `json:"ticks"`
}

// OverlayResult is a chart together with a normalized overlay line.
type OverlayResult struct {
	Chart   string                      `json:"chart"`
	Unit    string                      `json:"unit"`
	Lines   []Line[LineInfo]            `json:"lines"`
	Overlay NormalizedOverlay[LineInfo] `json:"overlay"`
}

// Geometry is the pixel layout of a rendered chart.
type Geometry struct {
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	PaddingTop    float64 `json:"paddingTop"`
	PaddingLeft   float64 `json:"paddingLeft"`
	PaddingRight  float64 `json:"paddingRight"`
	PaddingBottom float64 `json:"paddingBottom"`
	PlotWidth     float64 `json:"plotWidth"`
	PlotHeight    float64 `json:"plotHeight"`
}

// ToPlot converts a position in chart coordinates into plot area coordinates.
func (g Geometry) ToPlot(x, y float64) (float64, float64) {
	return x - g.PaddingLeft, y - g.PaddingTop
}

// AxisTick is a labelled tick on the time axis.
type AxisTick struct {
	X     X      `json:"x"`
	Label string `json:"label"`
}

// StdDevIncrease reports a series whose recent volatility grew past its baseline.
type StdDevIncrease struct {
	Chart  string            `json:"chart"`
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
	At     time.Time         `json:"at"`
	Past   float64           `json:"past"`
	Last   float64           `json:"last"`
	Ratio  float64           `json:"ratio"`
	Label  string            `json:"label"`
}

// GetIncreaseLabel returns a plain text label for a std-dev growth ratio.
func GetIncreaseLabel(ratio float64) string {
	switch {
	case ratio >= 4:
		return "Critical"
	case ratio >= 2.5:
		return "High"
	default:
		return "Moderate"
	}
}
