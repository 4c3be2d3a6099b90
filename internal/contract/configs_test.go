package contract

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/dashline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input that passes validation with no dashboard path.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Workers:      2,
		Precision:    DefaultPrecision,
		Output:       "text",
		StoreBackend: "sqlite",
		Color:        "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", modify: func(*ConfigRawInput) {}},
		{name: "zero workers", modify: func(in *ConfigRawInput) { in.Workers = 0 }, expectError: true},
		{name: "precision too high", modify: func(in *ConfigRawInput) { in.Precision = 5 }, expectError: true},
		{name: "invalid output", modify: func(in *ConfigRawInput) { in.Output = "yaml" }, expectError: true},
		{name: "parquet without file", modify: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: true},
		{name: "xlsx with file", modify: func(in *ConfigRawInput) { in.Output = "xlsx"; in.OutputFile = "out.xlsx" }},
		{name: "invalid preview format", modify: func(in *ConfigRawInput) { in.Format = "gif" }, expectError: true},
		{name: "negative width", modify: func(in *ConfigRawInput) { in.Width = -1 }, expectError: true},
		{name: "negative buckets", modify: func(in *ConfigRawInput) { in.Buckets = -3 }, expectError: true},
		{name: "invalid color flag", modify: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: true},
		{name: "invalid backend", modify: func(in *ConfigRawInput) { in.StoreBackend = "redis" }, expectError: true},
		{name: "mysql without dsn", modify: func(in *ConfigRawInput) { in.StoreBackend = "mysql" }, expectError: true},
		{name: "invalid palette", modify: func(in *ConfigRawInput) { in.Palette = "red" }, expectError: true},
		{name: "valid palette", modify: func(in *ConfigRawInput) { in.Palette = "#06c, #4CB140" }},
		{name: "invalid label filter", modify: func(in *ConfigRawInput) { in.Labels = "method" }, expectError: true},
		{name: "start and last", modify: func(in *ConfigRawInput) { in.Start = "1 hour ago"; in.Last = "30m" }, expectError: true},
		{name: "end without start", modify: func(in *ConfigRawInput) { in.End = "1 hour ago" }, expectError: true},
		{name: "start after end", modify: func(in *ConfigRawInput) { in.Start = "1 hour ago"; in.End = "2 hours ago" }, expectError: true},
		{name: "invalid at", modify: func(in *ConfigRawInput) { in.At = "tomorrow" }, expectError: true},
		{name: "missing input file", modify: func(in *ConfigRawInput) { in.InputPathStr = "/does/not/exist.yaml" }, expectError: true},
		{name: "missing input file with snapshot", modify: func(in *ConfigRawInput) {
			in.InputPathStr = "/does/not/exist.yaml"
			in.Snapshot = "prod"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.modify(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.PNGPreview, cfg.PreviewFormat)
	assert.Equal(t, schema.SQLiteBackend, cfg.StoreBackend)
	assert.Equal(t, DefaultChartHeight, cfg.Height)
	assert.False(t, cfg.HasWindow)
	assert.Nil(t, cfg.Window())
	assert.Nil(t, cfg.Palette)
	assert.Empty(t, cfg.LabelValues)
	assert.True(t, cfg.UseColors)
}

func TestProcessAndValidateInputPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: x\n"), 0o644))

	input := validInput()
	input.Input = "ignored.yaml"
	input.InputPathStr = path
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, path, cfg.InputPath)

	input = validInput()
	input.InputPathStr = dir
	assert.Error(t, ProcessAndValidate(&Config{}, input))
}

func TestProcessTimeRange(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("last sets window ending now", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, processTimeRange(cfg, &ConfigRawInput{Last: "30 minutes"}, now))
		assert.True(t, cfg.HasWindow)
		assert.Equal(t, now, cfg.EndTime)
		assert.Equal(t, now.Add(-30*time.Minute), cfg.StartTime)
		w := cfg.Window()
		require.NotNil(t, w)
		assert.Equal(t, cfg.StartTime, w.Min)
	})

	t.Run("absolute window", func(t *testing.T) {
		cfg := &Config{}
		input := &ConfigRawInput{Start: "2024-05-01T10:00:00Z", End: "2024-05-01T11:00:00Z"}
		require.NoError(t, processTimeRange(cfg, input, now))
		assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), cfg.StartTime)
		assert.Equal(t, time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC), cfg.EndTime)
	})

	t.Run("at defaults to now", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, processTimeRange(cfg, &ConfigRawInput{}, now))
		assert.Equal(t, now, cfg.At)
	})

	t.Run("relative at", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, processTimeRange(cfg, &ConfigRawInput{At: "10 minutes ago"}, now))
		assert.Equal(t, now.Add(-10*time.Minute), cfg.At)
	})
}

func TestProcessSeriesFilter(t *testing.T) {
	cfg := &Config{}
	input := &ConfigRawInput{
		Palette: "#06C,#4cb140",
		Labels:  "method=GET,code=500:yes",
		Include: " req*, ,**/errors ",
	}
	require.NoError(t, processSeriesFilter(cfg, input))
	assert.Equal(t, []string{"#06c", "#4cb140"}, cfg.Palette)
	assert.Equal(t, map[string]map[string]bool{
		"method": {"GET": false},
		"code":   {"500": true},
	}, cfg.LabelValues)
	assert.Equal(t, []string{"req*", "**/errors"}, cfg.Include)
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{
		Palette:     []string{"#06c"},
		Include:     []string{"a*"},
		LabelValues: map[string]map[string]bool{"m": {"GET": false}},
	}
	clone := cfg.CloneWithChart("latency")
	clone.Palette[0] = "#fff"
	clone.Include[0] = "b*"
	clone.LabelValues["m"]["GET"] = true

	assert.Equal(t, "latency", clone.ChartName)
	assert.Empty(t, cfg.ChartName)
	assert.Equal(t, "#06c", cfg.Palette[0])
	assert.Equal(t, "a*", cfg.Include[0])
	assert.False(t, cfg.LabelValues["m"]["GET"])
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name        string
		backend     schema.DatabaseBackend
		connStr     string
		expectError bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/dash", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/dash", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=dash", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRevalidateTimeRange(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, RevalidateTimeRange(cfg, "", "", "1h", ""))
	assert.True(t, cfg.HasWindow)
	assert.Equal(t, time.Hour, cfg.EndTime.Sub(cfg.StartTime))

	require.NoError(t, RevalidateTimeRange(cfg, "", "", "", "2025-03-01T12:00:00Z"))
	assert.False(t, cfg.HasWindow)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), cfg.At.UTC())

	assert.Error(t, RevalidateTimeRange(cfg, "2025-03-01T00:00:00Z", "", "1h", ""))
}

func TestRevalidateSeriesFilter(t *testing.T) {
	cfg := &Config{Palette: []string{"#112233"}}
	require.NoError(t, RevalidateSeriesFilter(cfg, "method=GET", "api_*", ""))
	assert.Equal(t, []string{"#112233"}, cfg.Palette)
	assert.Equal(t, []string{"api_*"}, cfg.Include)
	assert.False(t, cfg.LabelValues["method"]["GET"])

	require.NoError(t, RevalidateSeriesFilter(cfg, "", "", "#abc"))
	assert.Equal(t, []string{"#abc"}, cfg.Palette)
	assert.Nil(t, cfg.Include)

	assert.Error(t, RevalidateSeriesFilter(cfg, "", "", "blue"))
}
