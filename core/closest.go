package core

import (
	"math"

	"github.com/huangsam/dashline/schema"
)

// domainConverter maps data values linearly onto [0, size] pixels.
type domainConverter struct {
	min, span, size float64
}

func newDomainConverter(values []float64, size float64) domainConverter {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return domainConverter{min: lo, span: math.Max(1, hi-lo), size: size}
}

func (c domainConverter) asPixels(v float64) float64 {
	return c.size * (v - c.min) / c.span
}

// FindClosest returns the datum nearest to a pointer position inside the plot
// area. posY is measured from the top, as screens do. Distance is the sum of
// the horizontal and vertical pixel gaps; on ties the earliest datum wins.
// It returns false for an empty set or a degenerate plot area.
func FindClosest[T schema.Metadata](data []schema.Datum[T], posX, posY, width, height float64) (schema.Datum[T], bool) {
	if width <= 0 || height <= 0 || len(data) == 0 {
		return schema.Datum[T]{}, false
	}
	posY = height - posY

	xs := make([]float64, len(data))
	ys := make([]float64, len(data))
	for i, d := range data {
		xs[i] = d.X().Value
		ys[i] = d.RepresentativeY()
	}
	xConv := newDomainConverter(xs, width)
	yConv := newDomainConverter(ys, height)

	best := 0
	bestDist := math.Inf(1)
	for i := range data {
		dist := math.Abs(posX-xConv.asPixels(xs[i])) + math.Abs(posY-yConv.asPixels(ys[i]))
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return data[best], true
}

// FlattenLines wraps every point of the lines as a datum, line by line.
func FlattenLines[T schema.Metadata](lines []schema.Line[T]) []schema.Datum[T] {
	var data []schema.Datum[T]
	for _, l := range lines {
		for _, p := range l.Points {
			data = append(data, schema.FromPoint(p))
		}
	}
	return data
}

// FlattenBuckets wraps every bucket as a datum, set by set.
func FlattenBuckets[T schema.Metadata](sets [][]schema.BucketPoint[T]) []schema.Datum[T] {
	var data []schema.Datum[T]
	for _, set := range sets {
		for _, b := range set {
			data = append(data, schema.FromBucket(b))
		}
	}
	return data
}
