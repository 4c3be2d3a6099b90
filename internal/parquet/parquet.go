// Package parquet provides data structures and functions for exporting built
// chart data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/dashline/schema"
	"github.com/parquet-go/parquet-go"
)

// PointRecord is one point of a built chart line.
type PointRecord struct {
	// Chart is the name of the chart the line belongs to
	Chart string `parquet:"chart,snappy,dict"`

	// Series is the legend label of the line
	Series string `parquet:"series,snappy,dict"`

	// X is the raw axis value: epoch milliseconds on time axes, the number itself otherwise
	X float64 `parquet:"x,snappy"`

	// Time is the axis value as a timestamp (nullable for ordinal axes)
	Time *time.Time `parquet:"time,optional,snappy"`

	// Y is the plotted value
	Y float64 `parquet:"y,snappy"`

	// Unit is the unit of the chart (nullable)
	Unit *string `parquet:"unit,optional,snappy"`
}

// BucketRecord is one time bucket of a bucketed chart line.
type BucketRecord struct {
	Chart  string    `parquet:"chart,snappy,dict"`
	Series string    `parquet:"series,snappy,dict"`
	Start  time.Time `parquet:"start,snappy"`
	End    time.Time `parquet:"end,snappy"`
	Count  int32     `parquet:"count,snappy"`
	Min    float64   `parquet:"min,snappy"`
	Mean   float64   `parquet:"mean,snappy"`
	Max    float64   `parquet:"max,snappy"`
}

// PointRecords flattens the lines of every chart into point records.
func PointRecords(results []schema.ChartResult) []PointRecord {
	var records []PointRecord
	for _, r := range results {
		var unit *string
		if r.Unit != "" {
			u := r.Unit
			unit = &u
		}
		for _, line := range r.Lines {
			for _, p := range line.Points {
				record := PointRecord{
					Chart:  r.Chart,
					Series: line.Name(),
					X:      p.X.Value,
					Y:      p.Y,
					Unit:   unit,
				}
				if p.X.IsTime() {
					t := p.X.Time()
					record.Time = &t
				}
				records = append(records, record)
			}
		}
	}
	return records
}

// BucketRecords flattens the buckets of every bucketed chart into bucket records.
// Empty buckets are skipped.
func BucketRecords(results []schema.ChartResult) []BucketRecord {
	var records []BucketRecord
	for _, r := range results {
		for _, set := range r.Buckets {
			for _, b := range set {
				if len(b.Values) == 0 {
					continue
				}
				records = append(records, BucketRecord{
					Chart:  r.Chart,
					Series: b.Name(),
					Start:  b.Start.Time(),
					End:    b.End.Time(),
					Count:  int32(len(b.Values)),
					Min:    b.Min(),
					Mean:   b.Mean(),
					Max:    b.Max(),
				})
			}
		}
	}
	return records
}

// WritePointsParquet writes point records to a Parquet file.
func WritePointsParquet(data []PointRecord, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteBucketsParquet writes bucket records to a Parquet file.
func WriteBucketsParquet(data []BucketRecord, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows using the schema inferred from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
