package core

import (
	"math"
	"testing"
	"time"

	"github.com/huangsam/dashline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPoints(t *testing.T) {
	samples := []schema.Sample{
		{Timestamp: 10, Value: 1},
		{Timestamp: 20, Value: math.NaN()},
		{Timestamp: 30.0015, Value: 3},
	}

	points := ToPoints(samples, "cpu")
	require.Len(t, points, 2)
	assert.Equal(t, schema.DataPoint{Name: "cpu", X: schema.MillisX(10000), Y: 1}, points[0])
	assert.Equal(t, schema.MillisX(30001), points[1].X, "milliseconds are truncated")
	assert.True(t, points[1].Time.IsZero())
}

func TestToPointsNoValidSample(t *testing.T) {
	points := ToPoints([]schema.Sample{{Timestamp: 1, Value: math.NaN()}}, "x")
	assert.Empty(t, points)
	assert.NotNil(t, points)
}

func TestToPointsDropsInfinities(t *testing.T) {
	samples := []schema.Sample{
		{Timestamp: 1, Value: schema.ParseSampleValue("1")},
		{Timestamp: 2, Value: schema.ParseSampleValue("+Inf")},
		{Timestamp: 3, Value: schema.ParseSampleValue("Inf")},
		{Timestamp: 4, Value: schema.ParseSampleValue("-Inf")},
	}

	points := ToPoints(samples, "p99")
	require.Len(t, points, 1)
	assert.Equal(t, 1.0, points[0].Y)

	p, ok := ToLatestPoint(samples, "p99")
	require.True(t, ok)
	assert.True(t, p.Time.Equal(time.Unix(1, 0)), "infinite samples never count as latest")
}

func TestToLatestPoint(t *testing.T) {
	samples := []schema.Sample{
		{Timestamp: 10, Value: 1},
		{Timestamp: 30, Value: 2},
		{Timestamp: 20, Value: math.NaN()},
	}

	p, ok := ToLatestPoint(samples, "mem")
	require.True(t, ok)
	assert.Equal(t, "mem", p.Name)
	assert.Equal(t, 2.0, p.Y)
	assert.Equal(t, schema.OrdinalX(0), p.X)
	assert.True(t, p.Time.Equal(time.Unix(30, 0)))
}

func TestToLatestPointTiesAndEmpty(t *testing.T) {
	p, ok := ToLatestPoint([]schema.Sample{{Timestamp: 5, Value: 1}, {Timestamp: 5, Value: 2}}, "x")
	require.True(t, ok)
	assert.Equal(t, 1.0, p.Y, "first sample wins on equal timestamps")

	_, ok = ToLatestPoint(nil, "x")
	assert.False(t, ok)

	_, ok = ToLatestPoint([]schema.Sample{{Timestamp: 5, Value: math.NaN()}}, "x")
	assert.False(t, ok)

	// A later NaN never hides an earlier valid value.
	p, ok = ToLatestPoint([]schema.Sample{{Timestamp: 5, Value: 7}, {Timestamp: 9, Value: math.NaN()}}, "x")
	require.True(t, ok)
	assert.Equal(t, 7.0, p.Y)
}
