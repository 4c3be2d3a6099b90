package core

import (
	"math"

	"github.com/huangsam/dashline/schema"
)

// sampleMillis converts a sample timestamp in seconds into truncated epoch milliseconds.
func sampleMillis(ts float64) float64 {
	return math.Trunc(ts * 1000)
}

// ToPoints converts raw samples into data points on a time axis.
// Samples without a numeric value are dropped and the input order is preserved.
func ToPoints(samples []schema.Sample, name string) []schema.DataPoint {
	points := make([]schema.DataPoint, 0, len(samples))
	for _, s := range samples {
		if !s.IsValid() {
			continue
		}
		points = append(points, schema.DataPoint{
			Name: name,
			X:    schema.MillisX(sampleMillis(s.Timestamp)),
			Y:    s.Value,
		})
	}
	return points
}

// ToLatestPoint returns the most recent valid sample as a single point.
// Its X is the ordinal placeholder 0 and the real time is kept in Time.
// On equal timestamps the first sample wins.
func ToLatestPoint(samples []schema.Sample, name string) (schema.DataPoint, bool) {
	var latest schema.Sample
	found := false
	for _, s := range samples {
		if !s.IsValid() {
			continue
		}
		if !found || s.Timestamp > latest.Timestamp {
			latest = s
			found = true
		}
	}
	if !found {
		return schema.DataPoint{}, false
	}
	return schema.DataPoint{
		Name: name,
		X:    schema.OrdinalX(0),
		Y:    latest.Value,
		Time: schema.MillisX(sampleMillis(latest.Timestamp)).Time(),
	}, true
}
