package schema

import (
	"encoding/json"
	"slices"
	"time"
)

// LineInfo holds the display metadata shared by every point of a line.
type LineInfo struct {
	Name      string `json:"name"`
	Unit      string `json:"unit,omitempty"`
	Color     string `json:"color,omitempty"`
	Symbol    string `json:"symbol,omitempty"`
	HideLabel bool   `json:"hideLabel,omitempty"`
}

// Base returns the info itself so that LineInfo satisfies Metadata.
func (li LineInfo) Base() LineInfo {
	return li
}

// Metadata is the constraint for per-line metadata records.
// Richer records embed LineInfo and inherit Base.
type Metadata interface {
	Base() LineInfo
}

// DataPoint is a converted sample ready to be attached to a line.
// Time is only set on latest-value points, whose X is a placeholder.
type DataPoint struct {
	Name string    `json:"name"`
	X    X         `json:"x"`
	Y    float64   `json:"y"`
	Time time.Time `json:"time,omitzero"`
}

// LinePoint is a data point merged with the metadata of its line.
// ActualY keeps the original value of a rescaled overlay point.
type LinePoint[T Metadata] struct {
	DataPoint
	Meta    T        `json:"meta"`
	ActualY *float64 `json:"actualY,omitempty"`
}

// DisplayY returns the value to show in tooltips: the original value for
// rescaled overlay points, Y otherwise.
func (p LinePoint[T]) DisplayY() float64 {
	if p.ActualY != nil {
		return *p.ActualY
	}
	return p.Y
}

// BucketPoint aggregates the raw values falling in one time bucket.
type BucketPoint[T Metadata] struct {
	Meta   T         `json:"meta"`
	X      X         `json:"x"`
	Start  X         `json:"start"`
	End    X         `json:"end"`
	Values []float64 `json:"y"`
}

// Name returns the name of the line the bucket belongs to.
func (b BucketPoint[T]) Name() string {
	return b.Meta.Base().Name
}

// Min returns the smallest value of the bucket.
func (b BucketPoint[T]) Min() float64 {
	return slices.Min(b.Values)
}

// Max returns the largest value of the bucket.
func (b BucketPoint[T]) Max() float64 {
	return slices.Max(b.Values)
}

// Mean returns the average value of the bucket.
func (b BucketPoint[T]) Mean() float64 {
	sum := 0.0
	for _, v := range b.Values {
		sum += v
	}
	return sum / float64(len(b.Values))
}

// DatumKind tags the variant held by a Datum.
type DatumKind uint8

// Datum variants.
const (
	ScalarDatum DatumKind = iota
	BucketDatum
)

// Datum is either a scalar line point or a bucket of values.
type Datum[T Metadata] struct {
	kind   DatumKind
	point  LinePoint[T]
	bucket BucketPoint[T]
}

// FromPoint wraps a scalar point.
func FromPoint[T Metadata](p LinePoint[T]) Datum[T] {
	return Datum[T]{kind: ScalarDatum, point: p}
}

// FromBucket wraps a bucket.
func FromBucket[T Metadata](b BucketPoint[T]) Datum[T] {
	return Datum[T]{kind: BucketDatum, bucket: b}
}

// Kind returns the variant tag.
func (d Datum[T]) Kind() DatumKind {
	return d.kind
}

// Point returns the scalar point, if d holds one.
func (d Datum[T]) Point() (LinePoint[T], bool) {
	return d.point, d.kind == ScalarDatum
}

// Bucket returns the bucket, if d holds one.
func (d Datum[T]) Bucket() (BucketPoint[T], bool) {
	return d.bucket, d.kind == BucketDatum
}

// X returns the horizontal position of the datum.
func (d Datum[T]) X() X {
	if d.kind == BucketDatum {
		return d.bucket.X
	}
	return d.point.X
}

// RepresentativeY returns the value used to place the datum vertically.
// Buckets are placed at their minimum, which is also what tooltips highlight.
func (d Datum[T]) RepresentativeY() float64 {
	if d.kind == BucketDatum {
		return d.bucket.Min()
	}
	return d.point.Y
}

// Name returns the series name of the datum.
func (d Datum[T]) Name() string {
	if d.kind == BucketDatum {
		return d.bucket.Name()
	}
	return d.point.Name
}

// Meta returns the line metadata of the datum.
func (d Datum[T]) Meta() T {
	if d.kind == BucketDatum {
		return d.bucket.Meta
	}
	return d.point.Meta
}

// MarshalJSON encodes the wrapped variant.
func (d Datum[T]) MarshalJSON() ([]byte, error) {
	if d.kind == BucketDatum {
		return json.Marshal(d.bucket)
	}
	return json.Marshal(d.point)
}
