package core

import (
	"math"

	"github.com/huangsam/dashline/schema"
)

// Bucketize groups points into n equal-width buckets over their domain.
// The domain is the explicit window when given, otherwise the span of the
// point positions. Values falling outside the domain are dropped and empty
// buckets are omitted, so the result never holds more than n buckets.
// Bucket positions keep the axis kind of the first point.
func Bucketize[T schema.Metadata](n int, points []schema.DataPoint, meta T, window *schema.Window) []schema.BucketPoint[T] {
	if len(points) == 0 || n < 1 {
		return []schema.BucketPoint[T]{}
	}
	kind := points[0].X

	var lo, hi float64
	if window != nil {
		minX, maxX := window.Bounds()
		lo, hi = minX.Value, maxX.Value
	} else {
		lo, hi = points[0].X.Value, points[0].X.Value
		for _, p := range points[1:] {
			lo = math.Min(lo, p.X.Value)
			hi = math.Max(hi, p.X.Value)
		}
	}
	size := (1 + hi - lo) / float64(n)

	buckets := make([]schema.BucketPoint[T], n)
	for i := range buckets {
		start := math.Floor(lo + float64(i)*size)
		buckets[i] = schema.BucketPoint[T]{
			Meta:  meta,
			X:     kind.Like(math.Floor(start + size/2)),
			Start: kind.Like(start),
			End:   kind.Like(math.Floor(start + size - 1)),
		}
	}

	for _, p := range points {
		idx := math.Floor((p.X.Value - lo) / size)
		if idx >= 0 && idx < float64(n) {
			buckets[int(idx)].Values = append(buckets[int(idx)].Values, p.Y)
		}
	}

	result := make([]schema.BucketPoint[T], 0, n)
	for _, b := range buckets {
		if len(b.Values) > 0 {
			result = append(result, b)
		}
	}
	return result
}

// BucketizeLine buckets the points of a built line using its metadata.
func BucketizeLine[T schema.Metadata](n int, line schema.Line[T], window *schema.Window) []schema.BucketPoint[T] {
	if len(line.Points) == 0 {
		return []schema.BucketPoint[T]{}
	}
	points := make([]schema.DataPoint, len(line.Points))
	for i, p := range line.Points {
		points[i] = p.DataPoint
	}
	return Bucketize(n, points, line.Points[0].Meta, window)
}
