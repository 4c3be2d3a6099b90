package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/dashline/core"
	"github.com/huangsam/dashline/internal/contract"
	"github.com/huangsam/dashline/internal/dashfile"
	"github.com/huangsam/dashline/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// chartSummary describes one chart for list_charts.
type chartSummary struct {
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	AxisMode schema.AxisMode `json:"axisMode"`
	Series   int             `json:"series"`
}

// requestConfig clones the base config and applies the dashboard source and chart arguments.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) *contract.Config {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("dashboard_path", ""); p != "" {
		cfg.InputPath = p
		cfg.Snapshot = ""
	}
	if s := request.GetString("snapshot", ""); s != "" {
		cfg.Snapshot = s
	}
	cfg.ChartName = request.GetString("chart", "")
	return cfg
}

// applyFilter applies the series filter arguments shared by several tools.
func applyFilter(cfg *contract.Config, request mcp.CallToolRequest) error {
	labels := request.GetString("labels", "")
	include := request.GetString("include", "")
	palette := request.GetString("palette", "")
	if labels == "" && include == "" && palette == "" {
		return nil
	}
	return contract.RevalidateSeriesFilter(cfg, labels, include, palette)
}

// applySize applies the width and height arguments.
func applySize(cfg *contract.Config, request mcp.CallToolRequest) error {
	width := request.GetFloat("width", 0)
	height := request.GetFloat("height", 0)
	if width <= 0 {
		return fmt.Errorf("width must be greater than 0 (received %v)", width)
	}
	if height < 0 {
		return fmt.Errorf("height cannot be negative (received %v)", height)
	}
	cfg.Width = int(width)
	cfg.Height = int(height)
	if cfg.Height == 0 {
		cfg.Height = contract.DefaultChartHeight
	}
	return nil
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleListCharts(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.requestConfig(request)
	d, err := core.LoadDashboard(cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load dashboard: %v", err)), nil
	}

	summaries := make([]chartSummary, len(d.Charts))
	for i, c := range d.Charts {
		mode := c.AxisMode
		if mode == "" {
			mode = schema.TimeAxisMode
		}
		summaries[i] = chartSummary{Name: c.Name, Unit: c.Unit, AxisMode: mode, Series: len(c.Metrics)}
	}
	return jsonResult(map[string]any{"title": d.Title, "charts": summaries}), nil
}

func (h *toolHandler) handleBuildSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.requestConfig(request)
	cfg.Buckets = 0
	if err := applyFilter(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid filter parameters: %v", err)), nil
	}

	results, err := h.build(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("build failed: %v", err)), nil
	}
	return jsonResult(results), nil
}

func (h *toolHandler) handleBucketize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.requestConfig(request)
	cfg.Buckets = request.GetInt("buckets", contract.DefaultBuckets)
	if cfg.Buckets < 1 {
		return mcp.NewToolResultError(fmt.Sprintf("buckets must be at least 1 (received %d)", cfg.Buckets)), nil
	}
	if err := contract.RevalidateTimeRange(cfg, request.GetString("start", ""), request.GetString("end", ""), request.GetString("last", ""), ""); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid window parameters: %v", err)), nil
	}
	if err := applyFilter(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid filter parameters: %v", err)), nil
	}

	results, err := h.build(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("bucketize failed: %v", err)), nil
	}
	return jsonResult(results), nil
}

func (h *toolHandler) handleLegendLayout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.requestConfig(request)
	cfg.Buckets = 0
	if err := applySize(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid size parameters: %v", err)), nil
	}

	results, err := h.build(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("layout failed: %v", err)), nil
	}
	showOverlay := request.GetBool("overlay", false)
	legends := make([]schema.LegendResult, len(results))
	for i, r := range results {
		geometry := core.ComputeChartGeometry(float64(cfg.Width), float64(cfg.Height), r.Legend, showOverlay)
		ticks := core.AxisTicks(r.Lines, geometry.PlotWidth)
		legends[i] = schema.LegendResult{
			Chart:      r.Chart,
			Labels:     core.LegendLabels(r.Lines),
			Layout:     r.Legend,
			Geometry:   geometry,
			TickLayout: ticks.Layout,
			Ticks:      ticks.Ticks,
		}
	}
	return jsonResult(legends), nil
}

func (h *toolHandler) handleFindClosest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.requestConfig(request)
	if err := applySize(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid size parameters: %v", err)), nil
	}
	cfg.Buckets = request.GetInt("buckets", 0)
	if cfg.Buckets < 0 {
		return mcp.NewToolResultError(fmt.Sprintf("buckets cannot be negative (received %d)", cfg.Buckets)), nil
	}

	cfg.PosX = request.GetFloat("x", 0)
	cfg.PosY = request.GetFloat("y", 0)
	cfg.OverlayChart = request.GetString("overlay", "")

	d, err := core.LoadDashboard(cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load dashboard: %v", err)), nil
	}
	result, err := core.LocateClosest(ctx, d, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("hit-test failed: %v", err)), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleNormalizeOverlay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.requestConfig(request)
	cfg.OverlayChart = request.GetString("overlay", "")
	if cfg.OverlayChart == "" {
		return mcp.NewToolResultError("overlay is required"), nil
	}

	d, err := core.LoadDashboard(cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load dashboard: %v", err)), nil
	}
	result, err := core.BuildOverlay(ctx, d, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("overlay failed: %v", err)), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleAnalyzeStdDev(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.requestConfig(request)
	if err := contract.RevalidateTimeRange(cfg, "", "", "", request.GetString("at", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid analysis time: %v", err)), nil
	}
	if err := applyFilter(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid filter parameters: %v", err)), nil
	}

	d, err := core.LoadDashboard(cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load dashboard: %v", err)), nil
	}
	charts, err := dashfile.SelectCharts(d, cfg.ChartName)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid chart parameter: %v", err)), nil
	}
	filter := core.LabelFilter{Values: cfg.LabelValues, Include: cfg.Include}
	results := core.AnalyzeDashboard(schema.Dashboard{Title: d.Title, Charts: charts}, filter, cfg.At)
	return jsonResult(map[string]any{"at": cfg.At, "increases": results}), nil
}

// build loads the requested dashboard and builds its selected charts.
func (h *toolHandler) build(ctx context.Context, cfg *contract.Config) ([]schema.ChartResult, error) {
	d, err := core.LoadDashboard(cfg, h.mgr)
	if err != nil {
		return nil, err
	}
	return core.BuildDashboard(ctx, d, cfg)
}
