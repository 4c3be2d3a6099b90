package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/dashline/internal/contract"
	"github.com/huangsam/dashline/schema"
)

// PrintClosestResult outputs the datum nearest to a click position.
func PrintClosestResult(result schema.ClosestResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"chart", "found", "kind", "series", "x", "y", "values", "plot_x", "plot_y"}
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				return csvWriter.Write(closestRow(result, fmtFloat))
			})
		}, "Wrote CSV")
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeClosestTable(w, result, fmtFloat, duration)
		}, "Wrote table")
	default:
		return unsupportedOutput(cfg, "closest")
	}
}

// closestRow flattens a hit-test result; bucket values are joined with '|'.
func closestRow(result schema.ClosestResult, fmtFloat func(float64) string) []string {
	row := []string{result.Chart, strconv.FormatBool(result.Found), "", "", "", "", "", fmtFloat(result.PlotX), fmtFloat(result.PlotY)}
	if !result.Found {
		return row
	}
	d := result.Datum
	row[2] = "point"
	if bucket, ok := d.Bucket(); ok {
		row[2] = "bucket"
		values := make([]string, len(bucket.Values))
		for i, v := range bucket.Values {
			values[i] = fmtFloat(v)
		}
		row[6] = strings.Join(values, "|")
	}
	row[3] = d.Name()
	row[4] = d.X().String()
	row[5] = fmtFloat(d.RepresentativeY())
	if p, ok := d.Point(); ok {
		row[5] = fmtFloat(p.DisplayY())
	}
	return row
}

func writeClosestTable(w io.Writer, result schema.ClosestResult, fmtFloat func(float64) string, duration time.Duration) error {
	if !result.Found {
		if _, err := fmt.Fprintf(w, "No data point found in chart %s at plot position (%s, %s)\n", result.Chart, fmtFloat(result.PlotX), fmtFloat(result.PlotY)); err != nil {
			return err
		}
		return nil
	}

	table := newTable(w, []string{"Chart", "Kind", "Series", "X", "Y", "Values", "Plot X", "Plot Y"})
	row := closestRow(result, fmtFloat)
	data := [][]string{{row[0], row[2], row[3], row[4], row[5], row[6], row[7], row[8]}}
	if err := renderTable(table, data); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Hit-test completed in %v\n", duration); err != nil {
		return err
	}
	return nil
}
