package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/dashline/internal/contract"
	"github.com/huangsam/dashline/schema"
)

// PrintOverlayResult outputs an overlay line fitted onto a chart.
func PrintOverlayResult(result schema.OverlayResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"chart", "overlay", "x", "y", "actual_y", "factor", "second_axis"}
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				o := result.Overlay
				for _, p := range o.Line.Points {
					row := []string{
						result.Chart,
						o.Line.Name(),
						p.X.String(),
						fmtFloat(p.Y),
						fmtFloat(p.DisplayY()),
						strconv.FormatFloat(o.Scale.Factor, 'g', -1, 64),
						strconv.FormatBool(o.Scale.SecondAxis),
					}
					if err := csvWriter.Write(row); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeOverlayTable(w, result, fmtFloat, duration)
		}, "Wrote table")
	default:
		return unsupportedOutput(cfg, "overlay")
	}
}

func writeOverlayTable(w io.Writer, result schema.OverlayResult, fmtFloat func(float64) string, duration time.Duration) error {
	o := result.Overlay
	table := newTable(w, []string{"X", "Plotted", "Actual"})
	var data [][]string
	for _, p := range o.Line.Points {
		data = append(data, []string{p.X.String(), fmtFloat(p.Y), fmtFloat(p.DisplayY())})
	}
	if err := renderTable(table, data); err != nil {
		return err
	}

	axis := "shared axis"
	if o.Scale.SecondAxis {
		axis = "second axis"
		if o.Scale.Unit != "" {
			axis = fmt.Sprintf("second axis (%s)", o.Scale.Unit)
		}
	}
	if _, err := fmt.Fprintf(w, "Overlay %q on %s: factor %s, %s\n", o.Line.Name(), result.Chart, fmtFloat(o.Scale.Factor), axis); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Overlay computed in %v\n", duration); err != nil {
		return err
	}
	return nil
}
