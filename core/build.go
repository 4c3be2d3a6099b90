package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/huangsam/dashline/internal/contract"
	"github.com/huangsam/dashline/internal/dashfile"
	"github.com/huangsam/dashline/internal/outwriter"
	"github.com/huangsam/dashline/schema"
)

// chartJob is one chart queued for the worker pool, with its position in the output.
type chartJob struct {
	idx   int
	chart schema.ChartSpec
}

// chartOutput pairs a built chart with its position in the output.
type chartOutput struct {
	idx    int
	result schema.ChartResult
}

// BuildDashboard builds every chart of the dashboard, or only cfg.ChartName when set.
// Charts are built concurrently by cfg.Workers goroutines, each with its own color
// cursor, and the results keep the dashboard order.
func BuildDashboard(ctx context.Context, d schema.Dashboard, cfg *contract.Config) ([]schema.ChartResult, error) {
	charts, err := dashfile.SelectCharts(d, cfg.ChartName)
	if err != nil {
		return nil, err
	}
	width := outwriter.GetContainerWidth(cfg)

	jobCh := make(chan chartJob, len(charts))
	outCh := make(chan chartOutput, len(charts))
	var wg sync.WaitGroup

	for range max(1, cfg.Workers) {
		wg.Go(func() {
			for job := range jobCh {
				if ctx.Err() != nil {
					continue
				}
				outCh <- chartOutput{idx: job.idx, result: BuildChart(job.chart, cfg, width)}
			}
		})
	}

	for i, c := range charts {
		jobCh <- chartJob{idx: i, chart: c}
	}
	close(jobCh)

	wg.Wait()
	close(outCh)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results := make([]schema.ChartResult, len(charts))
	for out := range outCh {
		results[out.idx] = out.result
	}
	return results, nil
}

// BuildChart builds the lines of one chart, buckets them when cfg.Buckets is set and
// sizes the legend for the container width. Series-axis charts are never bucketed.
func BuildChart(chart schema.ChartSpec, cfg *contract.Config, width float64) schema.ChartResult {
	lines := GetDataSupplier(chart, labelFilter(cfg), cfg.Palette)()
	result := schema.ChartResult{
		Chart:    chart.Name,
		Unit:     chart.Unit,
		AxisMode: chart.AxisMode,
		Lines:    lines,
		Legend:   ComputeLegendLayout(LegendLabels(lines), width),
	}
	if cfg.Buckets > 0 && !chart.IsSeriesAxis() {
		window := cfg.Window()
		result.Buckets = make([][]schema.BucketPoint[schema.LineInfo], len(lines))
		for i, l := range lines {
			result.Buckets[i] = BucketizeLine(cfg.Buckets, l, window)
		}
	}
	return result
}

// BuildOverlay normalizes the first visible line of cfg.OverlayChart against
// the chart picked by cfg.ChartName.
func BuildOverlay(ctx context.Context, d schema.Dashboard, cfg *contract.Config) (schema.OverlayResult, error) {
	chart, err := SingleChart(d, cfg)
	if err != nil {
		return schema.OverlayResult{}, err
	}
	results, err := BuildDashboard(ctx, d, cfg.CloneWithChart(chart.Name))
	if err != nil {
		return schema.OverlayResult{}, err
	}
	primary := results[0]

	overlay, err := overlayFor(d, cfg, primary)
	if err != nil {
		return schema.OverlayResult{}, err
	}
	return schema.OverlayResult{
		Chart:   primary.Chart,
		Unit:    primary.Unit,
		Lines:   primary.Lines,
		Overlay: overlay,
	}, nil
}

// overlayFor fits the first visible series of cfg.OverlayChart onto a built chart.
func overlayFor(d schema.Dashboard, cfg *contract.Config, primary schema.ChartResult) (schema.NormalizedOverlay[schema.LineInfo], error) {
	overlayChart, err := dashfile.FindChart(d, cfg.OverlayChart)
	if err != nil {
		return schema.NormalizedOverlay[schema.LineInfo]{}, fmt.Errorf("invalid --overlay: %w", err)
	}

	overlayLines := GetDataSupplier(overlayChart, labelFilter(cfg), cfg.Palette)()
	if len(overlayLines) == 0 {
		return schema.NormalizedOverlay[schema.LineInfo]{}, fmt.Errorf("overlay chart %q has no visible series", overlayChart.Name)
	}
	first := overlayLines[0]
	points := make([]schema.DataPoint, len(first.Points))
	for i, p := range first.Points {
		points[i] = p.DataPoint
	}

	info := schema.OverlayInfo[schema.LineInfo]{
		Title: overlayChart.Name,
		Unit:  overlayChart.Unit,
		LineInfo: schema.LineInfo{
			Name:  first.Name(),
			Unit:  overlayChart.Unit,
			Color: overlayColor(cfg.Palette, len(primary.Lines)),
		},
	}
	return NormalizeOverlay(primary.Lines, primary.Unit, NewOverlay(info, points)), nil
}

// overlayColor returns the palette color following the n primary line colors.
func overlayColor(palette []string, n int) string {
	colors := NewColors(palette)
	for range n {
		colors.Next()
	}
	return colors.Next()
}
