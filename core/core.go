// Package core has the chart data pipeline and the command executors built on it.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/dashline/internal/contract"
	"github.com/huangsam/dashline/internal/dashfile"
	"github.com/huangsam/dashline/internal/outwriter"
	"github.com/huangsam/dashline/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteSeries builds every selected chart and prints its lines.
func ExecuteSeries(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	d, err := LoadDashboard(cfg, mgr)
	if err != nil {
		return err
	}
	lineCfg := cfg.Clone()
	lineCfg.Buckets = 0
	results, err := BuildDashboard(ctx, d, lineCfg)
	if err != nil {
		return err
	}
	return outwriter.PrintChartResults(results, cfg, time.Since(start))
}

// ExecuteBuckets builds every selected chart and prints its lines grouped into buckets.
func ExecuteBuckets(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	d, err := LoadDashboard(cfg, mgr)
	if err != nil {
		return err
	}
	bucketCfg := cfg.Clone()
	if bucketCfg.Buckets == 0 {
		bucketCfg.Buckets = contract.DefaultBuckets
	}
	results, err := BuildDashboard(ctx, d, bucketCfg)
	if err != nil {
		return err
	}
	return outwriter.PrintChartResults(results, bucketCfg, time.Since(start))
}

// ExecuteLegend prints the legend layout, plot geometry and time ticks of every selected chart.
func ExecuteLegend(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	d, err := LoadDashboard(cfg, mgr)
	if err != nil {
		return err
	}
	lineCfg := cfg.Clone()
	lineCfg.Buckets = 0
	results, err := BuildDashboard(ctx, d, lineCfg)
	if err != nil {
		return err
	}

	width := outwriter.GetContainerWidth(cfg)
	legends := make([]schema.LegendResult, len(results))
	for i, r := range results {
		geometry := ComputeChartGeometry(width, float64(cfg.Height), r.Legend, cfg.OverlayChart != "")
		ticks := AxisTicks(r.Lines, geometry.PlotWidth)
		legends[i] = schema.LegendResult{
			Chart:      r.Chart,
			Labels:     LegendLabels(r.Lines),
			Layout:     r.Legend,
			Geometry:   geometry,
			TickLayout: ticks.Layout,
			Ticks:      ticks.Ticks,
		}
	}
	return outwriter.PrintLegendResults(legends, cfg, time.Since(start))
}

// ExecuteClosest finds the datum under a pointer position given in chart coordinates.
// Bucketed charts are hit-tested against their buckets.
func ExecuteClosest(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	d, err := LoadDashboard(cfg, mgr)
	if err != nil {
		return err
	}
	result, err := LocateClosest(ctx, d, cfg)
	if err != nil {
		return err
	}
	return outwriter.PrintClosestResult(result, cfg, time.Since(start))
}

// LocateClosest builds the selected chart, plus its overlay when cfg.OverlayChart is set,
// and hit-tests cfg.PosX and cfg.PosY.
func LocateClosest(ctx context.Context, d schema.Dashboard, cfg *contract.Config) (schema.ClosestResult, error) {
	chart, err := SingleChart(d, cfg)
	if err != nil {
		return schema.ClosestResult{}, err
	}
	results, err := BuildDashboard(ctx, d, cfg.CloneWithChart(chart.Name))
	if err != nil {
		return schema.ClosestResult{}, err
	}
	primary := results[0]

	var overlay *schema.Line[schema.LineInfo]
	if cfg.OverlayChart != "" {
		normalized, err := overlayFor(d, cfg, primary)
		if err != nil {
			return schema.ClosestResult{}, err
		}
		overlay = &normalized.Line
	}
	return FindClosestInChart(primary, overlay, cfg.PosX, cfg.PosY, outwriter.GetContainerWidth(cfg), float64(cfg.Height)), nil
}

// FindClosestInChart lays out a built chart and hit-tests the given chart coordinates.
// A non-nil overlay reserves its axis and its rescaled points join the candidates.
func FindClosestInChart(r schema.ChartResult, overlay *schema.Line[schema.LineInfo], posX, posY, width, height float64) schema.ClosestResult {
	geometry := ComputeChartGeometry(width, height, r.Legend, overlay != nil)
	plotX, plotY := geometry.ToPlot(posX, posY)

	var data []schema.Datum[schema.LineInfo]
	if len(r.Buckets) > 0 {
		data = FlattenBuckets(r.Buckets)
	} else {
		data = FlattenLines(r.Lines)
	}
	if overlay != nil {
		data = append(data, FlattenLines([]schema.Line[schema.LineInfo]{*overlay})...)
	}
	datum, found := FindClosest(data, plotX, plotY, geometry.PlotWidth, geometry.PlotHeight)
	return schema.ClosestResult{
		Chart:    r.Chart,
		Found:    found,
		Datum:    datum,
		PlotX:    plotX,
		PlotY:    plotY,
		Geometry: geometry,
	}
}

// ExecuteOverlay fits the first line of the overlay chart onto a chart.
func ExecuteOverlay(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	if cfg.OverlayChart == "" {
		return errors.New("--overlay is required")
	}
	d, err := LoadDashboard(cfg, mgr)
	if err != nil {
		return err
	}
	result, err := BuildOverlay(ctx, d, cfg)
	if err != nil {
		return err
	}
	return outwriter.PrintOverlayResult(result, cfg, time.Since(start))
}

// ExecuteAnalyze reports series whose recent std-dev grew past their baseline.
func ExecuteAnalyze(_ context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	d, err := LoadDashboard(cfg, mgr)
	if err != nil {
		return err
	}
	charts, err := dashfile.SelectCharts(d, cfg.ChartName)
	if err != nil {
		return err
	}
	results := AnalyzeDashboard(schema.Dashboard{Title: d.Title, Charts: charts}, labelFilter(cfg), cfg.At)
	return outwriter.PrintAnalysisResults(results, cfg, time.Since(start))
}

// ExecutePreview renders one chart, with its overlay when requested, as an image.
func ExecutePreview(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	d, err := LoadDashboard(cfg, mgr)
	if err != nil {
		return err
	}
	chart, err := SingleChart(d, cfg)
	if err != nil {
		return err
	}
	results, err := BuildDashboard(ctx, d, cfg.CloneWithChart(chart.Name))
	if err != nil {
		return err
	}

	var overlay *schema.NormalizedOverlay[schema.LineInfo]
	if cfg.OverlayChart != "" {
		o, err := BuildOverlay(ctx, d, cfg.CloneWithChart(chart.Name))
		if err != nil {
			return err
		}
		overlay = &o.Overlay
	}
	return outwriter.PrintPreview(results[0], overlay, cfg)
}

// ExecuteSnapshotSave stores the dashboard file under the snapshot name,
// or under the file name when none is given.
func ExecuteSnapshotSave(_ context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.InputPath == "" {
		return errors.New("a dashboard file is required")
	}
	store := mgr.GetSnapshotStore()
	if store == nil {
		return errors.New("snapshot store is disabled (store-backend is none)")
	}
	d, err := dashfile.Load(cfg.InputPath)
	if err != nil {
		return err
	}
	payload, err := dashfile.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode dashboard: %w", err)
	}

	name := cfg.Snapshot
	if name == "" {
		base := filepath.Base(cfg.InputPath)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	record, err := store.Save(name, payload, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save snapshot %q: %w", name, err)
	}
	fmt.Fprintf(os.Stderr, "💾 Saved snapshot %s (version %d, %d charts)\n", record.Name, record.Version, len(d.Charts))
	return nil
}

// ExecuteSnapshotList prints the latest version of every stored snapshot.
func ExecuteSnapshotList(_ context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	store := mgr.GetSnapshotStore()
	if store == nil {
		return errors.New("snapshot store is disabled (store-backend is none)")
	}
	records, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}
	return outwriter.PrintSnapshotList(records, cfg)
}

// LoadDashboard reads the dashboard from the snapshot store when a snapshot
// name is set, and from the input file otherwise.
func LoadDashboard(cfg *contract.Config, mgr contract.StoreManager) (schema.Dashboard, error) {
	if cfg.Snapshot != "" {
		var store contract.SnapshotStore
		if mgr != nil {
			store = mgr.GetSnapshotStore()
		}
		if store == nil {
			return schema.Dashboard{}, errors.New("snapshot store is disabled (store-backend is none)")
		}
		record, err := store.Get(cfg.Snapshot)
		if err != nil {
			return schema.Dashboard{}, fmt.Errorf("failed to load snapshot %q: %w", cfg.Snapshot, err)
		}
		return dashfile.ParseJSON(record.Payload)
	}
	if cfg.InputPath == "" {
		return schema.Dashboard{}, errors.New("no dashboard given: pass a file or --snapshot")
	}
	return dashfile.Load(cfg.InputPath)
}

// SingleChart picks the chart a single-chart command works on. The chart flag
// may be omitted when the dashboard has exactly one chart.
func SingleChart(d schema.Dashboard, cfg *contract.Config) (schema.ChartSpec, error) {
	if cfg.ChartName != "" {
		return dashfile.FindChart(d, cfg.ChartName)
	}
	if len(d.Charts) == 1 {
		return d.Charts[0], nil
	}
	return schema.ChartSpec{}, fmt.Errorf("--chart is required when the dashboard has %d charts", len(d.Charts))
}

// labelFilter builds the series filter from the configuration.
func labelFilter(cfg *contract.Config) LabelFilter {
	return LabelFilter{Values: cfg.LabelValues, Include: cfg.Include}
}
