package outwriter

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/huangsam/dashline/internal/contract"
	"github.com/huangsam/dashline/schema"
	"github.com/xuri/excelize/v2"
)

const maxSheetNameLength = 31

// writeXLSXResultsForCharts writes one worksheet per chart with the lines as
// columns keyed by x, plus a native line chart next to the data.
func writeXLSXResultsForCharts(results []schema.ChartResult, cfg *contract.Config) error {
	if err := requireOutputFile(cfg); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	defaultSheet := f.GetSheetName(0)
	used := map[string]bool{}
	for i, r := range results {
		sheet := uniqueSheetName(r.Chart, used)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		if err := writeChartSheet(f, sheet, r); err != nil {
			return fmt.Errorf("failed to write sheet %q: %w", sheet, err)
		}
	}

	if err := f.SaveAs(cfg.OutputFile); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote XLSX to %s\n", cfg.OutputFile)
	return nil
}

// writeChartSheet fills a worksheet with a chart's lines and adds a line chart.
func writeChartSheet(f *excelize.File, sheet string, r schema.ChartResult) error {
	xs, rows := pivotLines(r.Lines)

	header := []any{"x"}
	for _, line := range r.Lines {
		header = append(header, line.Name())
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, x := range xs {
		row := []any{x.String()}
		for _, v := range rows[i] {
			if v == nil {
				row = append(row, nil)
				continue
			}
			row = append(row, *v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	if len(xs) == 0 || len(r.Lines) == 0 {
		return nil
	}

	ref := quoteSheetName(sheet)
	lastRow := len(xs) + 1
	var series []excelize.ChartSeries
	for i := range r.Lines {
		col, err := excelize.ColumnNumberToName(i + 2)
		if err != nil {
			return err
		}
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", ref, col),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", ref, lastRow),
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", ref, col, col, lastRow),
		})
	}

	anchor, err := excelize.CoordinatesToCellName(len(r.Lines)+3, 1)
	if err != nil {
		return err
	}
	title := r.Chart
	if r.Unit != "" {
		title = fmt.Sprintf("%s (%s)", r.Chart, r.Unit)
	}
	return f.AddChart(sheet, anchor, &excelize.Chart{
		Type:   excelize.Line,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: title}},
		Legend: excelize.ChartLegend{Position: "bottom"},
	})
}

// pivotLines returns the sorted distinct x values of the lines and, per x,
// the y of each line (nil where a line has no point at that x).
func pivotLines(lines []schema.Line[schema.LineInfo]) ([]schema.X, [][]*float64) {
	index := map[schema.X]int{}
	var xs []schema.X
	for _, line := range lines {
		for _, p := range line.Points {
			if _, ok := index[p.X]; !ok {
				index[p.X] = len(xs)
				xs = append(xs, p.X)
			}
		}
	}
	slices.SortStableFunc(xs, func(a, b schema.X) int {
		switch {
		case a.Value < b.Value:
			return -1
		case a.Value > b.Value:
			return 1
		default:
			return 0
		}
	})
	for i, x := range xs {
		index[x] = i
	}

	rows := make([][]*float64, len(xs))
	for i := range rows {
		rows[i] = make([]*float64, len(lines))
	}
	for j, line := range lines {
		for _, p := range line.Points {
			y := p.Y
			rows[index[p.X]][j] = &y
		}
	}
	return xs, rows
}

// uniqueSheetName turns a chart name into a valid, unused worksheet name.
func uniqueSheetName(name string, used map[string]bool) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, strings.Trim(name, "'"))
	if cleaned == "" {
		cleaned = "Chart"
	}
	cleaned = truncateRunes(cleaned, maxSheetNameLength)

	candidate := cleaned
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncateRunes(cleaned, maxSheetNameLength-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// quoteSheetName quotes a sheet name for use in a cell reference.
func quoteSheetName(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}
