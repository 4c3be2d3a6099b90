package core

import (
	"math"
	"unicode/utf8"

	"github.com/huangsam/dashline/schema"
)

// legendItemWidth picks the footprint of one legend item from the longest label.
func legendItemWidth(longest int) int {
	switch {
	case longest >= 30:
		return schema.LegendItemWidthXL
	case longest >= 20:
		return schema.LegendItemWidthL
	case longest >= 10:
		return schema.LegendItemWidthM
	default:
		return schema.LegendItemWidthS
	}
}

// ComputeLegendLayout sizes a legend for the given container width.
// Label length is counted in characters, not pixels.
func ComputeLegendLayout(labels []string, width float64) schema.LegendLayout {
	longest := 0
	for _, l := range labels {
		longest = max(longest, utf8.RuneCountInString(l))
	}
	itemWidth := legendItemWidth(longest)
	perRow := max(1, int(math.Floor(width/float64(itemWidth))))
	rows := (len(labels) + perRow - 1) / perRow
	return schema.LegendLayout{
		ItemWidth:   itemWidth,
		ItemsPerRow: perRow,
		Rows:        rows,
		TotalHeight: schema.LegendBaseHeight + schema.LegendRowHeight*rows,
	}
}

// LegendLabels returns the legend label of every line.
func LegendLabels[T schema.Metadata](lines []schema.Line[T]) []string {
	labels := make([]string, len(lines))
	for i, l := range lines {
		labels[i] = l.Legend.Label
	}
	return labels
}
