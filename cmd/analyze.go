package cmd

import (
	"github.com/huangsam/dashline/core"
	"github.com/huangsam/dashline/internal/contract"
	"github.com/spf13/cobra"
)

// analyzeCmd finds series whose volatility went up.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [dashboard-file]",
	Short: "Find series whose standard deviation increased.",
	Long: `Compare the standard deviation of each series over the five minutes before
--at with the thirty minutes before that, and report the series whose
deviation grew more than 1.5 times.

Each result is labeled by how much the deviation grew:
- Critical: 4x or more, or no variation in the baseline
- High:     2.5x or more
- Moderate: any other reported increase

Examples:
  # Analyze every chart at the current time
  dashline analyze dashboard.json

  # Analyze a stored snapshot at a past instant
  dashline analyze --snapshot prod --at "2 hours ago" --output csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnalyze(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run analysis", err)
		}
	},
}
