package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Sample is a raw (timestamp, value) pair from a metrics source.
// Timestamp is expressed in seconds since epoch. A NaN value means "absent".
type Sample struct {
	Timestamp float64
	Value     float64
}

// IsValid reports whether the sample carries a finite numeric value.
// Prometheus reports +Inf and -Inf for some queries, those are dropped like NaN.
func (s Sample) IsValid() bool {
	return !math.IsNaN(s.Value) && !math.IsInf(s.Value, 0)
}

// ParseSampleValue converts a textual sample value into a number.
// Unparseable text yields NaN, blank text yields 0.
func ParseSampleValue(s string) float64 {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// MarshalJSON encodes the sample as a Prometheus pair: [ts, "value"].
func (s Sample) MarshalJSON() ([]byte, error) {
	value := strconv.FormatFloat(s.Value, 'f', -1, 64)
	return json.Marshal([]any{s.Timestamp, value})
}

// UnmarshalJSON decodes a Prometheus pair. The value may be a string or a number.
func (s *Sample) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("sample must be a [timestamp, value] pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("sample must have exactly 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &s.Timestamp); err != nil {
		return fmt.Errorf("invalid sample timestamp %s: %w", string(pair[0]), err)
	}

	var text string
	if err := json.Unmarshal(pair[1], &text); err == nil {
		s.Value = ParseSampleValue(text)
		return nil
	}
	var num float64
	if err := json.Unmarshal(pair[1], &num); err != nil {
		s.Value = math.NaN()
		return nil
	}
	s.Value = num
	return nil
}
