package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/dashline/internal/contract"
	"github.com/huangsam/dashline/internal/parquet"
	"github.com/huangsam/dashline/schema"
)

// PrintChartResults outputs built charts, dispatching based on the output format configured.
func PrintChartResults(results []schema.ChartResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, results)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForCharts(w, results, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquetResultsForCharts(results, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	case schema.XLSXOut:
		if err := writeXLSXResultsForCharts(results, cfg); err != nil {
			return fmt.Errorf("error writing XLSX output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeChartTable(w, results, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	}
	return nil
}

// hasBuckets reports whether any chart was bucketed.
func hasBuckets(results []schema.ChartResult) bool {
	for _, r := range results {
		if len(r.Buckets) > 0 {
			return true
		}
	}
	return false
}

// writeChartTable prints one row per line, or one row per bucket for bucketed charts.
func writeChartTable(w io.Writer, results []schema.ChartResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	if hasBuckets(results) {
		if err := writeBucketTable(w, results, fmtFloat, intFmt); err != nil {
			return err
		}
	} else {
		table := newTable(w, []string{"Chart", "Series", "Points", "Min", "Max", "Last"})
		var data [][]string
		for _, r := range results {
			for _, line := range r.Lines {
				minY, maxY, last := lineStats(line)
				data = append(data, []string{
					r.Chart,
					swatch(line.Color, cfg.UseColors) + contract.TruncateLabel(line.Name(), 40),
					fmt.Sprintf(intFmt, len(line.Points)),
					fmtFloat(minY),
					fmtFloat(maxY),
					fmtFloat(last),
				})
			}
		}
		if err := renderTable(table, data); err != nil {
			return err
		}
	}

	points := 0
	for _, r := range results {
		points += r.PointCount()
	}
	if _, err := fmt.Fprintf(w, "Built %d charts (%d points) in %v with %d workers\n", len(results), points, duration, cfg.Workers); err != nil {
		return err
	}
	return nil
}

// writeBucketTable prints the non-empty buckets of every chart.
func writeBucketTable(w io.Writer, results []schema.ChartResult, fmtFloat func(float64) string, intFmt string) error {
	table := newTable(w, []string{"Chart", "Series", "Start", "End", "Count", "Min", "Mean", "Max"})
	var data [][]string
	for _, r := range results {
		for _, set := range r.Buckets {
			for _, b := range set {
				if len(b.Values) == 0 {
					continue
				}
				data = append(data, []string{
					r.Chart,
					contract.TruncateLabel(b.Name(), 40),
					b.Start.String(),
					b.End.String(),
					fmt.Sprintf(intFmt, len(b.Values)),
					fmtFloat(b.Min()),
					fmtFloat(b.Mean()),
					fmtFloat(b.Max()),
				})
			}
		}
	}
	return renderTable(table, data)
}

// lineStats returns the smallest, largest and last y of a line.
func lineStats(line schema.Line[schema.LineInfo]) (float64, float64, float64) {
	if len(line.Points) == 0 {
		return 0, 0, 0
	}
	minY, maxY := line.Points[0].Y, line.Points[0].Y
	for _, p := range line.Points[1:] {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	return minY, maxY, line.Points[len(line.Points)-1].Y
}

// swatch returns a colored square for the line color, or nothing when colors are off.
func swatch(hex string, useColors bool) string {
	if !useColors || hex == "" {
		return ""
	}
	c, ok := hexColor(hex)
	if !ok {
		return ""
	}
	return color.RGB(int(c.R), int(c.G), int(c.B)).Sprint("■") + " "
}

// writeCSVResultsForCharts writes one row per point, or one row per bucket for bucketed charts.
func writeCSVResultsForCharts(w io.Writer, results []schema.ChartResult, fmtFloat func(float64) string) error {
	if hasBuckets(results) {
		header := []string{"chart", "series", "x", "start", "end", "count", "min", "mean", "max"}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, r := range results {
				for _, set := range r.Buckets {
					for _, b := range set {
						row := []string{r.Chart, b.Name(), b.X.String(), b.Start.String(), b.End.String(), strconv.Itoa(len(b.Values)), "", "", ""}
						if len(b.Values) > 0 {
							row[6], row[7], row[8] = fmtFloat(b.Min()), fmtFloat(b.Mean()), fmtFloat(b.Max())
						}
						if err := csvWriter.Write(row); err != nil {
							return err
						}
					}
				}
			}
			return nil
		})
	}

	header := []string{"chart", "series", "x", "y", "unit"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, r := range results {
			for _, line := range r.Lines {
				for _, p := range line.Points {
					if err := csvWriter.Write([]string{r.Chart, line.Name(), p.X.String(), fmtFloat(p.Y), r.Unit}); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

// writeParquetResultsForCharts writes bucket records for bucketed charts and point records otherwise.
func writeParquetResultsForCharts(results []schema.ChartResult, cfg *contract.Config) error {
	if err := requireOutputFile(cfg); err != nil {
		return err
	}
	var err error
	if hasBuckets(results) {
		err = parquet.WriteBucketsParquet(parquet.BucketRecords(results), cfg.OutputFile)
	} else {
		err = parquet.WritePointsParquet(parquet.PointRecords(results), cfg.OutputFile)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	return nil
}
