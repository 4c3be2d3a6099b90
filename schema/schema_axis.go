package schema

import (
	"encoding/json"
	"fmt"
	"time"
)

// XKind tells whether an axis value is a calendar timestamp or a plain number.
type XKind uint8

// Supported axis kinds.
const (
	OrdinalAxis XKind = iota
	TimeAxis
)

// X is a value on the horizontal axis. For TimeAxis values, Value holds
// milliseconds since epoch; for OrdinalAxis values it is the number itself.
type X struct {
	Kind  XKind
	Value float64
}

// TimeX returns the axis value for a calendar time.
func TimeX(t time.Time) X {
	return X{Kind: TimeAxis, Value: float64(t.UnixMilli())}
}

// MillisX returns a time axis value from epoch milliseconds.
func MillisX(ms float64) X {
	return X{Kind: TimeAxis, Value: ms}
}

// OrdinalX returns a plain numeric axis value.
func OrdinalX(v float64) X {
	return X{Kind: OrdinalAxis, Value: v}
}

// IsTime reports whether x is a calendar timestamp.
func (x X) IsTime() bool {
	return x.Kind == TimeAxis
}

// Time returns x as a calendar time in UTC. Ordinal values are read as milliseconds.
func (x X) Time() time.Time {
	return time.UnixMilli(int64(x.Value)).UTC()
}

// Like returns v as an axis value of the same kind as x.
func (x X) Like(v float64) X {
	return X{Kind: x.Kind, Value: v}
}

// String renders the value for tables and logs.
func (x X) String() string {
	if x.IsTime() {
		return x.Time().Format(time.RFC3339)
	}
	return fmt.Sprintf("%g", x.Value)
}

// MarshalJSON encodes time values as RFC3339 strings and ordinal values as numbers.
func (x X) MarshalJSON() ([]byte, error) {
	if x.IsTime() {
		return json.Marshal(x.Time().Format(time.RFC3339Nano))
	}
	return json.Marshal(x.Value)
}

// UnmarshalJSON accepts either an RFC3339 string or a number.
func (x *X) UnmarshalJSON(b []byte) error {
	var text string
	if err := json.Unmarshal(b, &text); err == nil {
		t, err := time.Parse(time.RFC3339Nano, text)
		if err != nil {
			return fmt.Errorf("invalid time axis value %q: %w", text, err)
		}
		*x = TimeX(t)
		return nil
	}
	var num float64
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("axis value must be a time string or a number: %w", err)
	}
	*x = OrdinalX(num)
	return nil
}
