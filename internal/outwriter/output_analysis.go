package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/dashline/internal/contract"
	"github.com/huangsam/dashline/schema"
)

// PrintAnalysisResults outputs the series whose volatility increased.
func PrintAnalysisResults(results []schema.StdDevIncrease, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, results)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"chart", "series", "at", "past", "last", "ratio", "label"}
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				for _, r := range results {
					row := []string{r.Chart, r.Name, r.At.Format(contract.DateTimeFormat), fmtFloat(r.Past), fmtFloat(r.Last), fmtFloat(r.Ratio), r.Label}
					if err := csvWriter.Write(row); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisTable(w, results, cfg, fmtFloat, duration)
		}, "Wrote table")
	default:
		return unsupportedOutput(cfg, "analyze")
	}
}

func writeAnalysisTable(w io.Writer, results []schema.StdDevIncrease, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := newTable(w, []string{"Rank", "Chart", "Series", "Past σ", "Last σ", "Ratio", "Label"})
	var data [][]string
	for i, r := range results {
		label := r.Label
		if cfg.UseColors {
			label = contract.GetColorLabel(r.Label)
		}
		ratio := fmtFloat(r.Ratio)
		if r.Past == 0 {
			ratio = "∞"
		}
		data = append(data, []string{
			fmt.Sprintf("%d", i+1),
			r.Chart,
			contract.TruncateLabel(r.Name, 40),
			fmtFloat(r.Past),
			fmtFloat(r.Last),
			ratio,
			label,
		})
	}
	if err := renderTable(table, data); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Found %d series with increased std-dev at %s\n", len(results), cfg.At.Format(contract.DateTimeFormat)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Analysis completed in %v\n", duration); err != nil {
		return err
	}
	return nil
}
