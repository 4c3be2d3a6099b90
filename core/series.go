package core

import (
	"slices"

	"github.com/huangsam/dashline/schema"
)

// BuildLine attaches info to every point and derives the legend entry.
// A point keeps its own name; an empty one takes the line name.
func BuildLine[T schema.Metadata](points []schema.DataPoint, info T) schema.Line[T] {
	base := info.Base()
	linePoints := make([]schema.LinePoint[T], len(points))
	for i, p := range points {
		if p.Name == "" {
			p.Name = base.Name
		}
		linePoints[i] = schema.LinePoint[T]{DataPoint: p, Meta: info}
	}
	return schema.Line[T]{
		Points: linePoints,
		Legend: schema.LegendEntry{Label: base.Name, Color: base.Color, Symbol: base.Symbol},
		Color:  base.Color,
	}
}

// BuildSeriesSet builds one line per series in input order, drawing one color per line.
func BuildSeriesSet(series []schema.NamedSeries, unit string, colors ColorSource) []schema.Line[schema.LineInfo] {
	lines := make([]schema.Line[schema.LineInfo], len(series))
	for i, s := range series {
		info := schema.LineInfo{Name: s.Name, Unit: unit, Color: colors.Next()}
		lines[i] = BuildLine(ToPoints(s.Samples, s.Name), info)
	}
	return lines
}

type latestEntry struct {
	series schema.NamedSeries
	point  schema.DataPoint
	ok     bool
}

// BuildSinglePointSeries builds one line per series holding only its latest value.
// Lines are ordered by the time of that value, oldest first, and series without
// any valid sample come last with an empty line. Colors follow the sorted order.
func BuildSinglePointSeries(series []schema.NamedSeries, unit string, colors ColorSource) []schema.Line[schema.LineInfo] {
	entries := make([]latestEntry, len(series))
	for i, s := range series {
		p, ok := ToLatestPoint(s.Samples, s.Name)
		entries[i] = latestEntry{series: s, point: p, ok: ok}
	}

	slices.SortStableFunc(entries, func(a, b latestEntry) int {
		switch {
		case a.ok && b.ok:
			return a.point.Time.Compare(b.point.Time)
		case a.ok:
			return -1
		case b.ok:
			return 1
		default:
			return 0
		}
	})

	lines := make([]schema.Line[schema.LineInfo], len(entries))
	for i, e := range entries {
		info := schema.LineInfo{Name: e.series.Name, Unit: unit, Color: colors.Next()}
		var points []schema.DataPoint
		if e.ok {
			points = []schema.DataPoint{e.point}
		}
		lines[i] = BuildLine(points, info)
	}
	return lines
}
