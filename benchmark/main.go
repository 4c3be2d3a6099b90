// Package main provides a performance benchmarking tool for the Dashline CLI.
// It generates synthetic dashboards of increasing size and measures execution
// times per command, once reading the dashboard file and once loading it from a
// SQLite snapshot. Each phase is run multiple times, treating the first successful
// run as cold and averaging the rest as warm, and the results are written to CSV.
//
// Prerequisites:
// - dashline binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for the generated dashboards and the snapshot database
package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/dashline/internal/dashfile"
	"github.com/huangsam/dashline/schema"
)

// BenchmarkResult holds the result of a benchmark run (file average, snapshot cold run and snapshot warm average).
type BenchmarkResult struct {
	Dashboard string
	Command   string
	FileTime  string
	ColdTime  string
	WarmTime  string
}

// DashboardSize describes one generated dashboard.
type DashboardSize struct {
	Name    string
	Charts  int
	Series  int
	Samples int
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir      string
	Timeout      time.Duration
	Workers      int
	FileRuns     int
	SnapshotRuns int
	Sizes        []DashboardSize
	Commands     map[string]string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := os.Args[1]

	config := BenchmarkConfig{
		WorkDir:      workDir,
		Timeout:      2 * time.Minute,
		Workers:      8,
		FileRuns:     3,
		SnapshotRuns: 4,
		Sizes: []DashboardSize{
			{Name: "small", Charts: 4, Series: 5, Samples: 360},
			{Name: "medium", Charts: 12, Series: 20, Samples: 1440},
			{Name: "large", Charts: 24, Series: 50, Samples: 10080},
		},
		Commands: map[string]string{
			"series":  "",
			"buckets": "--buckets 60",
			"legend":  "--width 1200",
			"analyze": "",
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the dashline binary exists and the work dir is usable
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("dashline"); err != nil {
		return fmt.Errorf("dashline binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work dir %s: %w", config.WorkDir, err)
	}
	return nil
}

// generateDashboard writes a dashboard of sine waves with noise bursts, one sample per minute.
func generateDashboard(dir string, size DashboardSize) (string, error) {
	end := time.Now().Unix()
	d := schema.Dashboard{Title: "benchmark " + size.Name}
	for c := range size.Charts {
		chart := schema.ChartSpec{Name: fmt.Sprintf("chart-%02d", c), Unit: "req/s"}
		for s := range size.Series {
			series := schema.NamedSeries{
				Name:    "requests",
				Labels:  map[string]string{"instance": fmt.Sprintf("host-%03d", s)},
				Samples: make([]schema.Sample, size.Samples),
			}
			for i := range size.Samples {
				ts := end - int64(size.Samples-i)*60
				v := 100 + 50*math.Sin(float64(i+s)/30)
				if i > size.Samples-5 && s%3 == 0 {
					v += float64((i * 37) % 90)
				}
				series.Samples[i] = schema.Sample{Timestamp: float64(ts), Value: v}
			}
			chart.Metrics = append(chart.Metrics, series)
		}
		d.Charts = append(d.Charts, chart)
	}

	data, err := dashfile.Marshal(d)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, size.Name+".json")
	return path, os.WriteFile(path, data, 0o644)
}

// runBenchmarks executes all benchmark tests across configured dashboard sizes
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d dashboards, %v timeout, %d workers, file: %d runs, snapshot: %d runs\n",
		len(config.Sizes), config.Timeout, config.Workers, config.FileRuns, config.SnapshotRuns)

	dbPath := filepath.Join(config.WorkDir, "benchmark_snapshots.db")
	_ = os.Remove(dbPath)

	for _, size := range config.Sizes {
		fmt.Printf("Benchmarking %s (%d charts x %d series x %d samples)\n", size.Name, size.Charts, size.Series, size.Samples)

		path, err := generateDashboard(config.WorkDir, size)
		if err != nil {
			fmt.Printf("  Failed to generate dashboard: %v\n", err)
			continue
		}

		saveCmd := exec.Command("dashline", "snapshot", "save", path, "--snapshot", size.Name, "--store-db-connect", dbPath)
		if output, err := saveCmd.CombinedOutput(); err != nil {
			fmt.Printf("  Warning: failed to save snapshot: %v\nOutput: %s\n", err, string(output))
		}

		for _, command := range []string{"series", "buckets", "legend", "analyze"} {
			result := runBenchmarkSuite(config, size.Name, path, dbPath, command, config.Commands[command])
			results = append(results, result)
		}
	}

	return results
}

// runBenchmarkSuite runs both file and snapshot benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, name, path, dbPath, command, extraArgs string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, name)

	runPhase := func(source []string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, command, source, extraArgs, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: Dashboard file
	_, fileAvg := runPhase([]string{path, "--store-backend", "none"}, config.FileRuns, "File")

	// Phase 2: SQLite snapshot
	coldTime, warmAvg := runPhase([]string{"--snapshot", name, "--store-db-connect", dbPath}, config.SnapshotRuns, "Snapshot")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  File average: %s, Cold time: %s, Warm average: %s\n", fileAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dashboard: name,
		Command:   command,
		FileTime:  fileAvg,
		ColdTime:  coldTimeStr,
		WarmTime:  warmAvg,
	}
}

// runBenchmark executes a dashline command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, command string, source []string, extraArgs string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{command, "--workers", fmt.Sprint(config.Workers)}, source...)
	if extraArgs != "" {
		args = append(args, strings.Fields(extraArgs)...)
	}

	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("dashline", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)
	switch command {
	case "analyze":
		return strings.Contains(outputStr, "Analysis completed in")
	case "legend":
		return strings.Contains(outputStr, "Laid out")
	default:
		return strings.Contains(outputStr, "Built") && strings.Contains(outputStr, "workers")
	}
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("dashline_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"dashboard", "cmd", "file_avg", "snapshot_cold", "snapshot_warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Dashboard, result.Command, result.FileTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV results: %w", err)
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"series", "buckets", "legend", "analyze"} {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-8s: File: %s, Cold: %s, Warm: %s\n", result.Dashboard, result.FileTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
