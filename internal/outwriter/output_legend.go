package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/huangsam/dashline/internal/contract"
	"github.com/huangsam/dashline/schema"
)

// PrintLegendResults outputs legend layouts and plot geometry per chart.
func PrintLegendResults(results []schema.LegendResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, results)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForLegends(w, results, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLegendTable(w, results, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	default:
		return unsupportedOutput(cfg, "legend")
	}
}

// unsupportedOutput reports a format that only applies to chart data.
func unsupportedOutput(cfg *contract.Config, command string) error {
	return fmt.Errorf("%s output is not supported for %s; use text, json or csv", cfg.Output, command)
}

func legendRow(r schema.LegendResult, fmtFloat func(float64) string, intFmt string) []string {
	return []string{
		r.Chart,
		fmt.Sprintf(intFmt, len(r.Labels)),
		fmt.Sprintf(intFmt, r.Layout.ItemWidth),
		fmt.Sprintf(intFmt, r.Layout.ItemsPerRow),
		fmt.Sprintf(intFmt, r.Layout.Rows),
		fmt.Sprintf(intFmt, r.Layout.TotalHeight),
		fmtFloat(r.Geometry.PlotWidth),
		fmtFloat(r.Geometry.PlotHeight),
	}
}

func tickLabels(ticks []schema.AxisTick) string {
	labels := make([]string, len(ticks))
	for i, t := range ticks {
		labels[i] = t.Label
	}
	return strings.Join(labels, " ")
}

func writeLegendTable(w io.Writer, results []schema.LegendResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	table := newTable(w, []string{"Chart", "Labels", "Item Width", "Per Row", "Rows", "Legend Height", "Plot Width", "Plot Height", "Ticks"})
	var data [][]string
	for _, r := range results {
		data = append(data, append(legendRow(r, fmtFloat, intFmt), tickLabels(r.Ticks)))
	}
	if err := renderTable(table, data); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Laid out %d legends for a %dpx container in %v\n", len(results), int(GetContainerWidth(cfg)), duration); err != nil {
		return err
	}
	return nil
}

func writeCSVResultsForLegends(w io.Writer, results []schema.LegendResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"chart", "labels", "item_width", "items_per_row", "rows", "total_height", "plot_width", "plot_height", "tick_layout", "ticks"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, r := range results {
			row := append(legendRow(r, fmtFloat, intFmt), r.TickLayout, tickLabels(r.Ticks))
			if err := csvWriter.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
