// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/dashline/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Dashline MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Dashline Chart Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: list_charts ---
	s.AddTool(mcp.NewTool("list_charts",
		mcp.WithDescription("List the charts of a dashboard with their unit, axis mode and series count."),
		dashboardPathOption(),
		snapshotOption(),
	), h.handleListCharts)

	// --- 2. Tool: build_series ---
	s.AddTool(mcp.NewTool("build_series",
		mcp.WithDescription("Build the colored lines of every chart, or of one chart."),
		dashboardPathOption(),
		snapshotOption(),
		mcp.WithString("chart", mcp.Description("Only build the chart with this name.")),
		mcp.WithString("labels", mcp.Description("Label visibility rules, e.g. 'method=GET,code=500:yes'.")),
		mcp.WithString("include", mcp.Description("Comma-separated glob patterns matched against series names.")),
		mcp.WithString("palette", mcp.Description("Comma-separated hex colors assigned to lines in order.")),
	), h.handleBuildSeries)

	// --- 3. Tool: bucketize ---
	s.AddTool(mcp.NewTool("bucketize",
		mcp.WithDescription("Group the time-axis lines of every chart into equal-width buckets with count, min, mean and max."),
		dashboardPathOption(),
		snapshotOption(),
		mcp.WithNumber("buckets", mcp.Description("Number of buckets per line (defaults to 10).")),
		mcp.WithString("chart", mcp.Description("Only bucketize the chart with this name.")),
		mcp.WithString("start", mcp.Description("Window start (absolute ISO8601 or 'N [units] ago').")),
		mcp.WithString("end", mcp.Description("Window end (absolute ISO8601 or 'N [units] ago').")),
		mcp.WithString("last", mcp.Description("Window length ending now (e.g. '30m', '6 hours').")),
		mcp.WithString("labels", mcp.Description("Label visibility rules.")),
	), h.handleBucketize)

	// --- 4. Tool: legend_layout ---
	s.AddTool(mcp.NewTool("legend_layout",
		mcp.WithDescription("Compute legend layout, plot geometry and time ticks for each chart at a container size."),
		dashboardPathOption(),
		snapshotOption(),
		mcp.WithNumber("width", mcp.Description("Container width in pixels."), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("Chart height in pixels, legend excluded (defaults to 300).")),
		mcp.WithString("chart", mcp.Description("Only lay out the chart with this name.")),
		mcp.WithBoolean("overlay", mcp.Description("Reserve room for an overlay axis.")),
	), h.handleLegendLayout)

	// --- 5. Tool: find_closest ---
	s.AddTool(mcp.NewTool("find_closest",
		mcp.WithDescription("Find the data point or bucket closest to a pointer position in chart coordinates."),
		dashboardPathOption(),
		snapshotOption(),
		mcp.WithString("chart", mcp.Description("Chart to hit-test (optional when the dashboard has one chart).")),
		mcp.WithNumber("x", mcp.Description("Pointer x in chart coordinates."), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Pointer y in chart coordinates."), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("Container width in pixels."), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("Chart height in pixels (defaults to 300).")),
		mcp.WithNumber("buckets", mcp.Description("Hit-test against this many buckets instead of raw points.")),
		mcp.WithString("overlay", mcp.Description("Chart whose first visible series is overlaid and hit-tested too.")),
	), h.handleFindClosest)

	// --- 6. Tool: normalize_overlay ---
	s.AddTool(mcp.NewTool("normalize_overlay",
		mcp.WithDescription("Scale the first series of one chart onto the value range of another chart."),
		dashboardPathOption(),
		snapshotOption(),
		mcp.WithString("chart", mcp.Description("Primary chart (optional when the dashboard has one chart).")),
		mcp.WithString("overlay", mcp.Description("Chart whose first visible series is overlaid."), mcp.Required()),
	), h.handleNormalizeOverlay)

	// --- 7. Tool: analyze_stddev ---
	s.AddTool(mcp.NewTool("analyze_stddev",
		mcp.WithDescription("Find series whose standard deviation over the last five minutes grew past 1.5 times its thirty minute baseline."),
		dashboardPathOption(),
		snapshotOption(),
		mcp.WithString("at", mcp.Description("Analysis time (absolute ISO8601 or 'N [units] ago'). Defaults to now.")),
		mcp.WithString("chart", mcp.Description("Only analyze the chart with this name.")),
		mcp.WithString("labels", mcp.Description("Label visibility rules.")),
	), h.handleAnalyzeStdDev)

	return s
}

func dashboardPathOption() mcp.ToolOption {
	return mcp.WithString("dashboard_path", mcp.Description("Path to the dashboard file (defaults to the file given on startup)."))
}

func snapshotOption() mcp.ToolOption {
	return mcp.WithString("snapshot", mcp.Description("Load the latest version of this stored snapshot instead of a file."))
}

// StartMCPServer starts the Dashline MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
