package schema

// LegendEntry is the legend item derived from a line.
type LegendEntry struct {
	Label  string `json:"label"`
	Color  string `json:"color,omitempty"`
	Symbol string `json:"symbol,omitempty"`
}

// Line is a named sequence of points with its legend entry.
type Line[T Metadata] struct {
	Points []LinePoint[T] `json:"points"`
	Legend LegendEntry    `json:"legend"`
	Color  string         `json:"color,omitempty"`
}

// Name returns the legend label of the line.
func (l Line[T]) Name() string {
	return l.Legend.Label
}

// MaxY returns the largest y of the line and false when it has no points.
func (l Line[T]) MaxY() (float64, bool) {
	if len(l.Points) == 0 {
		return 0, false
	}
	maxY := l.Points[0].Y
	for _, p := range l.Points[1:] {
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return maxY, true
}

// LegendLayout is the computed legend footprint for a container width.
type LegendLayout struct {
	ItemWidth   int `json:"itemWidth"`
	ItemsPerRow int `json:"itemsPerRow"`
	Rows        int `json:"rows"`
	TotalHeight int `json:"totalHeight"`
}

// OverlayInfo describes the secondary line drawn over a chart.
type OverlayInfo[T Metadata] struct {
	Title    string `json:"title"`
	Unit     string `json:"unit"`
	LineInfo T      `json:"lineInfo"`
}

// Overlay is a secondary line with its description.
type Overlay[T Metadata] struct {
	Info OverlayInfo[T] `json:"info"`
	Line Line[T]        `json:"line"`
}

// OverlayScale records how an overlay was fitted to the primary axis.
type OverlayScale struct {
	Factor     float64 `json:"factor"`
	SecondAxis bool    `json:"secondAxis"`
	Unit       string  `json:"unit,omitempty"`
	Title      string  `json:"title,omitempty"`
}

// TickValue maps a tick on the primary axis back to the overlay's own scale.
func (s OverlayScale) TickValue(tick float64) float64 {
	if s.Factor == 0 {
		return tick
	}
	return tick / s.Factor
}

// NormalizedOverlay is an overlay ready to be merged with the primary lines.
type NormalizedOverlay[T Metadata] struct {
	Info  OverlayInfo[T] `json:"info"`
	Line  Line[T]        `json:"line"`
	Scale OverlayScale   `json:"scale"`
}
