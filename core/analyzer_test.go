package core

import (
	"math"
	"testing"
	"time"

	"github.com/huangsam/dashline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var analyzeAt = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

// volatileSeries alternates lo/hi values every 30s over the baseline window
// and recentLo/recentHi over the recent window.
func volatileSeries(name string, lo, hi, recentLo, recentHi float64) schema.NamedSeries {
	at := float64(analyzeAt.Unix())
	var samples []schema.Sample
	for k := 58; k >= 1; k-- {
		v := lo
		if k%2 == 0 {
			v = hi
		}
		samples = append(samples, schema.Sample{Timestamp: at - 300 - float64(k*30), Value: v})
	}
	for k := 9; k >= 0; k-- {
		v := recentLo
		if k%2 == 0 {
			v = recentHi
		}
		samples = append(samples, schema.Sample{Timestamp: at - float64(k*30), Value: v})
	}
	return schema.NamedSeries{Name: name, Samples: samples}
}

func TestFindStdDevIncreases(t *testing.T) {
	series := []schema.NamedSeries{
		volatileSeries("spiky", 9, 11, 5, 15),
		volatileSeries("calm", 10, 10, 10, 10),
		volatileSeries("jump", 10, 10, 0, 20),
		volatileSeries("mild", 9, 11, 8, 12),
		volatileSeries("steady", 9, 11, 9, 11),
	}

	results := FindStdDevIncreases(series, analyzeAt)
	require.Len(t, results, 3)

	assert.Equal(t, "jump", results[0].Name)
	assert.Equal(t, 0.0, results[0].Past)
	assert.InDelta(t, 10.0, results[0].Last, 1e-9)
	assert.Equal(t, 0.0, results[0].Ratio)
	assert.Equal(t, "Critical", results[0].Label)

	assert.Equal(t, "mild", results[1].Name)
	assert.InDelta(t, 2.0, results[1].Ratio, 1e-9)
	assert.Equal(t, "Moderate", results[1].Label)

	assert.Equal(t, "spiky", results[2].Name)
	assert.InDelta(t, 1.0, results[2].Past, 1e-9)
	assert.InDelta(t, 5.0, results[2].Last, 1e-9)
	assert.Equal(t, "Critical", results[2].Label)
	assert.Equal(t, analyzeAt, results[2].At)
}

func TestFindStdDevIncreasesWindowBounds(t *testing.T) {
	at := float64(analyzeAt.Unix())
	s := schema.NamedSeries{Name: "edge", Samples: []schema.Sample{
		{Timestamp: at - 35*60, Value: 1000}, // excluded from the baseline
		{Timestamp: at - 300, Value: 4},      // last baseline sample
		{Timestamp: at - 600, Value: 4},
		{Timestamp: at - 299, Value: 0},
		{Timestamp: at, Value: 10},
		{Timestamp: at + 1, Value: 1000}, // after at
		{Timestamp: at - 100, Value: math.NaN()},
	}}

	results := FindStdDevIncreases([]schema.NamedSeries{s}, analyzeAt)
	require.Len(t, results, 1)
	assert.Equal(t, 0.0, results[0].Past)
	assert.InDelta(t, 5.0, results[0].Last, 1e-9)
}

func TestFindStdDevIncreasesEmpty(t *testing.T) {
	assert.Empty(t, FindStdDevIncreases(nil, analyzeAt))
	assert.Empty(t, FindStdDevIncreases([]schema.NamedSeries{{Name: "none"}}, analyzeAt))
}

func TestAnalyzeDashboard(t *testing.T) {
	d := schema.Dashboard{Charts: []schema.ChartSpec{
		{Name: "latency", Metrics: []schema.NamedSeries{volatileSeries("p99", 9, 11, 5, 15)}},
		{Name: "quiet", Metrics: []schema.NamedSeries{volatileSeries("p50", 10, 10, 10, 10)}},
	}}

	results := AnalyzeDashboard(d, LabelFilter{}, analyzeAt)
	require.Len(t, results, 1)
	assert.Equal(t, "latency", results[0].Chart)
	assert.Equal(t, "p99", results[0].Name)

	assert.NotNil(t, AnalyzeDashboard(schema.Dashboard{}, LabelFilter{}, analyzeAt))
}
