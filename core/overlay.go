package core

import "github.com/huangsam/dashline/schema"

// Overlay factors strictly inside this range reuse the primary value axis
// when units match.
const (
	minCompatibleFactor = 0.5
	maxCompatibleFactor = 2.0
)

// NewOverlay builds an overlay line from its description and points.
func NewOverlay[T schema.Metadata](info schema.OverlayInfo[T], points []schema.DataPoint) schema.Overlay[T] {
	return schema.Overlay[T]{Info: info, Line: BuildLine(points, info.LineInfo)}
}

// maxOfLines returns the largest y across lines and false when they have no points.
func maxOfLines[T schema.Metadata](lines []schema.Line[T]) (float64, bool) {
	var maxY float64
	found := false
	for _, l := range lines {
		if m, ok := l.MaxY(); ok && (!found || m > maxY) {
			maxY = m
			found = true
		}
	}
	return maxY, found
}

// NormalizeOverlay fits an overlay onto the value domain of the primary lines.
// When the overlay has the primary unit and its maximum is within a factor of
// two of the primary maximum, the points are kept as they are and share the
// primary axis. Otherwise they are scaled by mainMax/overlayMax and a second
// axis is requested. The returned line is always a fresh copy whose points
// carry their original value in ActualY.
func NormalizeOverlay[L, T schema.Metadata](primary []schema.Line[L], primaryUnit string, overlay schema.Overlay[T]) schema.NormalizedOverlay[T] {
	factor := 1.0
	mainMax, okMain := maxOfLines(primary)
	overlayMax, okOverlay := overlay.Line.MaxY()
	if okMain && okOverlay && overlayMax != 0 {
		factor = mainMax / overlayMax
	}

	compatible := overlay.Info.Unit == primaryUnit && factor > minCompatibleFactor && factor < maxCompatibleFactor
	scale := schema.OverlayScale{Factor: factor, SecondAxis: !compatible}
	if compatible {
		scale.Factor = 1
	} else {
		scale.Unit = overlay.Info.Unit
		scale.Title = overlay.Info.Title
	}

	points := make([]schema.LinePoint[T], len(overlay.Line.Points))
	for i, p := range overlay.Line.Points {
		actual := p.Y
		p.Y = actual * scale.Factor
		p.ActualY = &actual
		points[i] = p
	}

	line := overlay.Line
	line.Points = points
	return schema.NormalizedOverlay[T]{Info: overlay.Info, Line: line, Scale: scale}
}
