// Package cmd defines the command-line interface for dashline.
package cmd

import (
	"github.com/huangsam/dashline/internal/contract"
	"github.com/huangsam/dashline/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(bucketsCmd)
	rootCmd.AddCommand(legendCmd)
	rootCmd.AddCommand(closestCmd)
	rootCmd.AddCommand(overlayCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the snapshot subcommands to the parent snapshot command
	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotStatusCmd)
	snapshotCmd.AddCommand(snapshotClearCmd)
	snapshotCmd.AddCommand(snapshotMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("input", "i", "", "Path to the dashboard file (JSON or YAML)")
	rootCmd.PersistentFlags().String("snapshot", "", "Name of a stored snapshot to use instead of a file")
	rootCmd.PersistentFlags().StringP("chart", "c", "", "Only work on the chart with this name")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or xlsx")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Container width in pixels (0 = terminal width)")
	rootCmd.PersistentFlags().Int("height", contract.DefaultChartHeight, "Chart height in pixels, legend excluded")
	rootCmd.PersistentFlags().String("palette", "", "Comma-separated hex colors assigned to lines in order")
	rootCmd.PersistentFlags().String("labels", "", "Label visibility rules (format: 'method=GET,code=500:yes')")
	rootCmd.PersistentFlags().String("include", "", "Comma-separated glob patterns matched against series names")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Snapshot store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Local flags are bound by sharedSetup for the command that runs.
	bucketsCmd.Flags().Int("buckets", contract.DefaultBuckets, "Number of buckets per line")
	bucketsCmd.Flags().String("start", "", "Window start in ISO8601 or time ago")
	bucketsCmd.Flags().String("end", "", "Window end in ISO8601 or time ago")
	bucketsCmd.Flags().String("last", "", "Window length ending at --end or now (e.g. '30m', '6 hours')")

	legendCmd.Flags().String("overlay", "", "Reserve room for an overlay of this chart")

	closestCmd.Flags().Float64("x", 0, "Pointer x in chart coordinates")
	closestCmd.Flags().Float64("y", 0, "Pointer y in chart coordinates")
	closestCmd.Flags().Int("buckets", 0, "Hit-test against this many buckets instead of raw points")
	closestCmd.Flags().String("start", "", "Bucket window start in ISO8601 or time ago")
	closestCmd.Flags().String("end", "", "Bucket window end in ISO8601 or time ago")
	closestCmd.Flags().String("last", "", "Bucket window length ending at --end or now")
	closestCmd.Flags().String("overlay", "", "Overlay the first series of this chart and hit-test its points too")

	overlayCmd.Flags().String("overlay", "", "Chart whose first visible series is overlaid")

	analyzeCmd.Flags().String("at", "", "Analysis time in ISO8601 or time ago (default now)")

	previewCmd.Flags().String("format", string(schema.PNGPreview), "Image format: png or svg")
	previewCmd.Flags().String("overlay", "", "Also draw the first series of this chart")

	snapshotMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(snapshotMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding snapshot migrate flags", err)
	}
}
