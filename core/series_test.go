package core

import (
	"math"
	"testing"

	"github.com/huangsam/dashline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPalette = []string{"#111111", "#222222", "#333333"}

func TestColorsCycle(t *testing.T) {
	c := NewColors(testPalette)
	got := []string{c.Next(), c.Next(), c.Next(), c.Next()}
	assert.Equal(t, []string{"#111111", "#222222", "#333333", "#111111"}, got)

	d := NewColors(nil)
	assert.Equal(t, schema.DefaultPalette[0], d.Next())
}

func TestBuildLine(t *testing.T) {
	info := schema.LineInfo{Name: "requests", Color: "#06c", Symbol: "circle"}
	points := []schema.DataPoint{
		{Name: "", X: schema.MillisX(1), Y: 1},
		{Name: "custom", X: schema.MillisX(2), Y: 2},
	}

	line := BuildLine(points, info)
	require.Len(t, line.Points, 2)
	assert.Equal(t, "requests", line.Points[0].Name)
	assert.Equal(t, "custom", line.Points[1].Name)
	assert.Equal(t, info, line.Points[0].Meta)
	assert.Nil(t, line.Points[0].ActualY)
	assert.Equal(t, schema.LegendEntry{Label: "requests", Color: "#06c", Symbol: "circle"}, line.Legend)
	assert.Equal(t, "#06c", line.Color)
	assert.Equal(t, "", points[0].Name, "input points are not modified")
}

func TestBuildSeriesSet(t *testing.T) {
	series := []schema.NamedSeries{
		{Name: "a", Samples: []schema.Sample{{Timestamp: 1, Value: 1}, {Timestamp: 2, Value: math.NaN()}}},
		{Name: "b", Samples: []schema.Sample{{Timestamp: 1, Value: 4}}},
	}

	lines := BuildSeriesSet(series, "ms", NewColors(testPalette))
	require.Len(t, lines, 2)
	assert.Equal(t, "a", lines[0].Name())
	assert.Equal(t, "#111111", lines[0].Color)
	assert.Equal(t, "#222222", lines[1].Color)
	assert.Len(t, lines[0].Points, 1)
	assert.Equal(t, "ms", lines[1].Points[0].Meta.Unit)
}

func TestBuildSinglePointSeries(t *testing.T) {
	series := []schema.NamedSeries{
		{Name: "late", Samples: []schema.Sample{{Timestamp: 30, Value: 3}}},
		{Name: "empty", Samples: []schema.Sample{{Timestamp: 40, Value: math.NaN()}}},
		{Name: "early", Samples: []schema.Sample{{Timestamp: 5, Value: 1}, {Timestamp: 10, Value: 2}}},
		{Name: "late-too", Samples: []schema.Sample{{Timestamp: 30, Value: 9}}},
	}

	lines := BuildSinglePointSeries(series, "ops", NewColors(testPalette))
	require.Len(t, lines, 4)

	names := make([]string, len(lines))
	for i, l := range lines {
		names[i] = l.Name()
	}
	assert.Equal(t, []string{"early", "late", "late-too", "empty"}, names)

	assert.Equal(t, "#111111", lines[0].Color, "colors follow the sorted order")
	assert.Equal(t, "#222222", lines[1].Color)
	assert.Equal(t, "#333333", lines[2].Color)
	assert.Equal(t, "#111111", lines[3].Color)

	require.Len(t, lines[0].Points, 1)
	assert.Equal(t, 2.0, lines[0].Points[0].Y)
	assert.Equal(t, schema.OrdinalX(0), lines[0].Points[0].X)
	assert.Empty(t, lines[3].Points)
	assert.Equal(t, "empty", lines[3].Legend.Label)
}
