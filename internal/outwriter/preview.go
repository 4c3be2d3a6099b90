package outwriter

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/huangsam/dashline/internal/contract"
	"github.com/huangsam/dashline/schema"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// PrintPreview renders a built chart, and its overlay when given, as a PNG or SVG image.
// Lines with fewer than two valid points cannot be drawn and are left out.
func PrintPreview(result schema.ChartResult, overlay *schema.NormalizedOverlay[schema.LineInfo], cfg *contract.Config) error {
	format := cfg.PreviewFormat
	if format == "" {
		format = schema.PNGPreview
	}
	if format == schema.PNGPreview && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for %s previews", format)
	}

	graph, err := buildPreviewChart(result, overlay, cfg)
	if err != nil {
		return err
	}

	provider := chart.PNG
	if format == schema.SVGPreview {
		provider = chart.SVG
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		if err := graph.Render(provider, w); err != nil {
			return fmt.Errorf("chart render failed: %w", err)
		}
		return nil
	}, fmt.Sprintf("Wrote %s preview", strings.ToUpper(string(format))))
}

// buildPreviewChart assembles the go-chart model for a built chart.
func buildPreviewChart(result schema.ChartResult, overlay *schema.NormalizedOverlay[schema.LineInfo], cfg *contract.Config) (*chart.Chart, error) {
	width := cfg.Width
	if width <= 0 {
		width = contract.DefaultPreviewSize
	}
	height := cfg.Height
	if height <= 0 {
		height = contract.DefaultChartHeight
	}

	var series []chart.Series
	var first, last time.Time
	for _, line := range result.Lines {
		s, span, ok := previewSeries(line, false, chart.YAxisPrimary)
		if !ok {
			continue
		}
		series = append(series, s)
		if first.IsZero() || span[0].Before(first) {
			first = span[0]
		}
		if span[1].After(last) {
			last = span[1]
		}
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("chart %q has no line with at least two points to render", result.Chart)
	}

	graph := &chart.Chart{
		Title:  result.Chart,
		Width:  width,
		Height: height + result.Legend.TotalHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10 + result.Legend.TotalHeight},
		},
		YAxis: chart.YAxis{Name: result.Unit},
	}

	if overlay != nil {
		axis := chart.YAxisPrimary
		if overlay.Scale.SecondAxis {
			axis = chart.YAxisSecondary
		}
		if s, _, ok := previewSeries(overlay.Line, overlay.Scale.SecondAxis, axis); ok {
			series = append(series, s)
			if overlay.Scale.SecondAxis {
				graph.YAxisSecondary = chart.YAxis{Name: overlay.Scale.Unit}
			}
		}
	}
	graph.Series = series

	if !first.IsZero() {
		layout := "15:04"
		if last.Sub(first) > 24*time.Hour {
			layout = "01-02 15:04"
		}
		graph.XAxis = chart.XAxis{
			ValueFormatter: func(v any) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).UTC().Format(layout)
				}
				return ""
			},
		}
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph, nil
}

// previewSeries converts a line into a go-chart series, dropping NaN values.
// Time axis lines also report their first and last timestamps.
func previewSeries(line schema.Line[schema.LineInfo], actual bool, axis chart.YAxisType) (chart.Series, [2]time.Time, bool) {
	var span [2]time.Time
	var times []time.Time
	var xs, ys []float64
	isTime := true
	for _, p := range line.Points {
		y := p.Y
		if actual {
			y = p.DisplayY()
		}
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		isTime = isTime && p.X.IsTime()
		times = append(times, p.X.Time())
		xs = append(xs, p.X.Value)
		ys = append(ys, y)
	}
	if len(ys) < 2 {
		return nil, span, false
	}

	style := chart.Style{StrokeWidth: 2}
	if c, ok := hexColor(line.Color); ok {
		style.StrokeColor = c
	}
	if actual {
		style.StrokeDashArray = []float64{5, 5}
	}

	if isTime {
		span = [2]time.Time{times[0], times[len(times)-1]}
		return chart.TimeSeries{Name: line.Name(), Style: style, YAxis: axis, XValues: times, YValues: ys}, span, true
	}
	return chart.ContinuousSeries{Name: line.Name(), Style: style, YAxis: axis, XValues: xs, YValues: ys}, span, true
}

// hexColor converts a #rgb or #rrggbb line color.
func hexColor(hex string) (drawing.Color, bool) {
	if !contract.IsHexColor(hex) {
		return drawing.Color{}, false
	}
	return drawing.ColorFromHex(hex), true
}
