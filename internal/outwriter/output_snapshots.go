package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/dashline/internal/contract"
	"github.com/huangsam/dashline/schema"
)

// PrintSnapshotList outputs the latest version of every stored snapshot.
func PrintSnapshotList(records []schema.SnapshotRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"name", "version", "id", "timestamp", "size_bytes"}
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				for _, r := range records {
					if err := csvWriter.Write(snapshotRow(r)); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			table := newTable(w, []string{"Name", "Version", "ID", "Saved", "Size"})
			var data [][]string
			for _, r := range records {
				data = append(data, snapshotRow(r))
			}
			if err := renderTable(table, data); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "%d snapshots stored. Store backend: %s\n", len(records), cfg.StoreBackend)
			return err
		}, "Wrote table")
	default:
		return unsupportedOutput(cfg, "snapshot list")
	}
}

func snapshotRow(r schema.SnapshotRecord) []string {
	return []string{
		r.Name,
		strconv.Itoa(r.Version),
		r.ID,
		r.Timestamp.Format(contract.DateTimeFormat),
		strconv.Itoa(len(r.Payload)),
	}
}
