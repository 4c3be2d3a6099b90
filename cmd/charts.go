package cmd

import (
	"github.com/huangsam/dashline/core"
	"github.com/huangsam/dashline/internal/contract"
	"github.com/spf13/cobra"
)

// seriesCmd builds the chart lines of a dashboard.
var seriesCmd = &cobra.Command{
	Use:   "series [dashboard-file]",
	Short: "Build the colored lines of every chart.",
	Long: `Convert the series of each chart into colored lines ready for plotting.

Time charts get one point per valid sample. Series charts get one point per
series holding its latest value. Hidden labels and include patterns filter
the series before colors are assigned.

Examples:
  # Print every chart of a dashboard
  dashline series dashboard.json

  # Only GET traffic of the Requests chart, as JSON
  dashline series dashboard.json --chart Requests --labels method=GET:yes,method=POST --output json

  # Export every point to Excel with one sheet per chart
  dashline series dashboard.yaml --output xlsx --output-file charts.xlsx`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSeries(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build series", err)
		}
	},
}

// bucketsCmd groups chart lines into time buckets.
var bucketsCmd = &cobra.Command{
	Use:   "buckets [dashboard-file]",
	Short: "Group time chart lines into equal-width buckets.",
	Long: `Split the time range of each line into equal-width buckets and report
count, min, mean and max per bucket.

Without a window the range of each line's own points is used. Series charts
are never bucketed.

Examples:
  # Ten buckets per line
  dashline buckets dashboard.json

  # Twenty buckets over the last six hours
  dashline buckets dashboard.json --buckets 20 --last "6 hours"

  # Export buckets for analytics
  dashline buckets dashboard.json --output parquet --output-file buckets.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBuckets(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build buckets", err)
		}
	},
}

// legendCmd lays out chart legends, plot geometry and axis ticks.
var legendCmd = &cobra.Command{
	Use:   "legend [dashboard-file]",
	Short: "Compute legend layout, plot geometry and time ticks.",
	Long: `Lay out the legend of each chart for a container width and derive the
plot area and the time axis ticks that fit in it.

Examples:
  # Lay out for the terminal width
  dashline legend dashboard.json

  # Lay out for an 800px wide container with room for an overlay axis
  dashline legend dashboard.json --width 800 --overlay Latency`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteLegend(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compute legend", err)
		}
	},
}

// closestCmd hit-tests a pointer position against a chart.
var closestCmd = &cobra.Command{
	Use:   "closest [dashboard-file]",
	Short: "Find the data point under a pointer position.",
	Long: `Find the point, or bucket when --buckets is set, closest to a pointer
position given in chart coordinates.

Examples:
  # Hit-test the Requests chart at (120, 80)
  dashline closest dashboard.json --chart Requests --x 120 --y 80 --width 800`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteClosest(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot find closest point", err)
		}
	},
}

// overlayCmd fits one chart's series onto another chart.
var overlayCmd = &cobra.Command{
	Use:   "overlay [dashboard-file]",
	Short: "Scale a series of one chart onto another chart.",
	Long: `Take the first visible series of the overlay chart and scale it onto the
value range of the primary chart. Points keep their original value for
tooltips. Units that differ move the overlay to a second axis.

Examples:
  # Overlay latency on request rate
  dashline overlay dashboard.json --chart Requests --overlay Latency`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteOverlay(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compute overlay", err)
		}
	},
}

// previewCmd renders one chart as an image.
var previewCmd = &cobra.Command{
	Use:   "preview [dashboard-file]",
	Short: "Render a chart as a PNG or SVG image.",
	Long: `Draw the lines of one chart, and an overlay when requested, as an image.

PNG output needs --output-file. SVG is written to stdout when no file is given.

Examples:
  # Render a PNG
  dashline preview dashboard.json --chart Requests --output-file requests.png

  # Render an SVG with an overlay
  dashline preview dashboard.json --chart Requests --overlay Latency --format svg > requests.svg`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePreview(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot render preview", err)
		}
	},
}
