package contract

import (
	"fmt"
	"maps"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/huangsam/dashline/schema"
)

// Default values for configuration.
const (
	DefaultPrecision   = 2
	MaxPrecision       = 4
	DefaultChartHeight = 300
	DefaultPreviewSize = 1024
	DefaultBuckets     = 10
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for all commands.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath  string
	Snapshot   string
	ChartName  string
	Workers    int
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Container width in pixels (0 = terminal width)
	Height     int // Chart height in pixels, legend excluded

	Buckets   int
	HasWindow bool
	StartTime time.Time
	EndTime   time.Time
	At        time.Time

	Palette     []string
	LabelValues map[string]map[string]bool
	Include     []string

	PosX         float64
	PosY         float64
	OverlayChart string

	PreviewFormat schema.PreviewFormat

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Input          string `mapstructure:"input"`
	Snapshot       string `mapstructure:"snapshot"`
	Chart          string `mapstructure:"chart"`
	Workers        int    `mapstructure:"workers"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	Height         int    `mapstructure:"height"`
	Palette        string `mapstructure:"palette"`
	Labels         string `mapstructure:"labels"`
	Include        string `mapstructure:"include"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	Color          string `mapstructure:"color"`

	// --- Fields from bucketsCmd.Flags() and friends ---
	Buckets int    `mapstructure:"buckets"`
	Start   string `mapstructure:"start"`
	End     string `mapstructure:"end"`
	Last    string `mapstructure:"last"`

	// --- Fields from analyzeCmd.Flags() ---
	At string `mapstructure:"at"`

	// --- Fields from closestCmd.Flags() ---
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`

	// --- Fields from overlayCmd.Flags() ---
	Overlay string `mapstructure:"overlay"`

	// --- Fields from previewCmd.Flags() ---
	Format string `mapstructure:"format"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Palette != nil {
		clone.Palette = make([]string, len(c.Palette))
		copy(clone.Palette, c.Palette)
	}
	if c.Include != nil {
		clone.Include = make([]string, len(c.Include))
		copy(clone.Include, c.Include)
	}
	if c.LabelValues != nil {
		clone.LabelValues = make(map[string]map[string]bool, len(c.LabelValues))
		for label, values := range c.LabelValues {
			clone.LabelValues[label] = maps.Clone(values)
		}
	}
	return &clone
}

// CloneWithChart creates a copy of the Config restricted to one chart.
func (c *Config) CloneWithChart(name string) *Config {
	clone := c.Clone()
	clone.ChartName = name
	return clone
}

// Window returns the configured time window, or nil when none was given.
func (c *Config) Window() *schema.Window {
	if !c.HasWindow {
		return nil
	}
	return &schema.Window{Min: c.StartTime, Max: c.EndTime}
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input, time.Now()); err != nil {
		return err
	}
	if err := processSeriesFilter(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return resolveInputPath(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the snapshot store configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.Snapshot = strings.TrimSpace(input.Snapshot)
	cfg.ChartName = strings.TrimSpace(input.Chart)
	cfg.OutputFile = input.OutputFile
	cfg.OverlayChart = strings.TrimSpace(input.Overlay)
	cfg.PosX = input.X
	cfg.PosY = input.Y

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, xlsx", input.Output)
	}
	if (cfg.Output == schema.ParquetOut || cfg.Output == schema.XLSXOut) && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for %s output", cfg.Output)
	}

	cfg.PreviewFormat = schema.PreviewFormat(strings.ToLower(input.Format))
	if cfg.PreviewFormat == "" {
		cfg.PreviewFormat = schema.PNGPreview
	}
	if _, ok := schema.ValidPreviewFormats[cfg.PreviewFormat]; !ok {
		return fmt.Errorf("invalid preview format '%s'. must be png, svg", input.Format)
	}

	// --- 3. Geometry Validation ---
	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width
	if input.Height < 0 {
		return fmt.Errorf("height cannot be negative (received %d)", input.Height)
	}
	cfg.Height = input.Height
	if cfg.Height == 0 {
		cfg.Height = DefaultChartHeight
	}

	// --- 4. Buckets Validation ---
	if input.Buckets < 0 {
		return fmt.Errorf("buckets must be at least 1 when set (received %d)", input.Buckets)
	}
	cfg.Buckets = input.Buckets

	return nil
}

// processTimeRange handles the window and analysis time parsing.
func processTimeRange(cfg *Config, input *ConfigRawInput, now time.Time) error {
	cfg.HasWindow = false
	cfg.EndTime = now
	cfg.StartTime = time.Time{}

	// --- Process End Time ---
	if input.End != "" {
		t, err := ParseTimeString(input.End, now)
		if err != nil {
			return fmt.Errorf("invalid end date format for '%s'. Expected absolute ISO8601 or 'N [units] ago': %w", input.End, err)
		}
		cfg.EndTime = t
	}

	// --- Process Start Time ---
	switch {
	case input.Start != "" && input.Last != "":
		return fmt.Errorf("--start and --last cannot be used together")
	case input.Start != "":
		t, err := ParseTimeString(input.Start, now)
		if err != nil {
			return fmt.Errorf("invalid start date format for '%s'. Expected absolute ISO8601 or 'N [units] ago': %w", input.Start, err)
		}
		cfg.StartTime = t
		cfg.HasWindow = true
	case input.Last != "":
		d, err := ParseLookbackDuration(input.Last)
		if err != nil {
			return fmt.Errorf("invalid --last value: %w", err)
		}
		cfg.StartTime = cfg.EndTime.Add(-d)
		cfg.HasWindow = true
	case input.End != "":
		return fmt.Errorf("--end requires --start or --last")
	}

	// --- Final Validation ---
	if cfg.HasWindow && cfg.StartTime.After(cfg.EndTime) {
		return fmt.Errorf("start time (%s) cannot be after end time (%s)", cfg.StartTime.Format(DateTimeFormat), cfg.EndTime.Format(DateTimeFormat))
	}

	// --- Analysis Time ---
	cfg.At = now
	if input.At != "" {
		t, err := ParseTimeString(input.At, now)
		if err != nil {
			return fmt.Errorf("invalid --at value '%s': %w", input.At, err)
		}
		cfg.At = t
	}

	return nil
}

// processSeriesFilter parses the palette, label visibility and include patterns.
func processSeriesFilter(cfg *Config, input *ConfigRawInput) error {
	palette, err := ParsePalette(input.Palette)
	if err != nil {
		return fmt.Errorf("invalid --palette: %w", err)
	}
	cfg.Palette = palette

	values, err := ParseLabelFilter(input.Labels)
	if err != nil {
		return fmt.Errorf("invalid --labels: %w", err)
	}
	cfg.LabelValues = values

	cfg.Include = nil
	for p := range strings.SplitSeq(input.Include, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			cfg.Include = append(cfg.Include, trimmed)
		}
	}
	return nil
}

// resolveInputPath picks the dashboard source: a positional argument wins over --input.
// A snapshot name replaces the file entirely.
func resolveInputPath(cfg *Config, input *ConfigRawInput) error {
	path := input.InputPathStr
	if path == "" {
		path = input.Input
	}
	cfg.InputPath = path
	if cfg.Snapshot != "" || path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read dashboard file %q: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("dashboard path %q is a directory", path)
	}
	return nil
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// RevalidateTimeRange re-runs window and analysis time parsing on an already
// validated config, for callers that override the time flags per request.
func RevalidateTimeRange(cfg *Config, start, end, last, at string) error {
	return processTimeRange(cfg, &ConfigRawInput{Start: start, End: end, Last: last, At: at}, time.Now())
}

// RevalidateSeriesFilter replaces the label visibility and include patterns of a config.
// The palette is kept unless a new one is given.
func RevalidateSeriesFilter(cfg *Config, labels, include, palette string) error {
	input := &ConfigRawInput{Labels: labels, Include: include, Palette: palette}
	current := cfg.Palette
	if err := processSeriesFilter(cfg, input); err != nil {
		return err
	}
	if palette == "" {
		cfg.Palette = current
	}
	return nil
}
