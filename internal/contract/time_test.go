package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)

// TestParseRelativeTimeUnit covers various valid and invalid cases.
func TestParseRelativeTimeUnit(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{
			name:     "valid plural minutes (mixed case)",
			input:    "30 MiNuTeS AgO",
			expected: fixedNow.Add(-30 * time.Minute),
		},
		{
			name:     "valid singular hour",
			input:    "1 Hour Ago",
			expected: fixedNow.Add(-time.Hour),
		},
		{
			name:     "valid seconds",
			input:    "45 seconds ago",
			expected: fixedNow.Add(-45 * time.Second),
		},
		{
			name:     "valid months",
			input:    "3 months ago",
			expected: fixedNow.AddDate(0, -3, 0),
		},
		{
			name:        "invalid missing ago",
			input:       "2 hours",
			expectError: true,
		},
		{
			name:        "invalid bad unit (decades)",
			input:       "4 decades ago",
			expectError: true,
		},
		{
			name:        "invalid non-numeric value",
			input:       "one hour ago",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tResult, err := ParseRelativeTime(tt.input, fixedNow)

			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, tResult, "Parsed time mismatch")
			}
		})
	}
}

func TestParseTimeString(t *testing.T) {
	got, err := ParseTimeString("now", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, fixedNow, got)

	got, err = ParseTimeString("2025-11-03T09:00:00Z", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(-time.Hour), got)

	got, err = ParseTimeString("5 minutes ago", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(-5*time.Minute), got)

	_, err = ParseTimeString("yesterday", fixedNow)
	assert.Error(t, err)
}

// TestParseLookbackDuration covers various valid and invalid lookback strings,
// including singular/plural forms and the month/year approximations.
func TestParseLookbackDuration(t *testing.T) {
	const day = 24 * time.Hour

	tests := []struct {
		name      string
		input     string
		want      time.Duration
		expectErr bool
	}{
		{"go duration", "90m", 90 * time.Minute, false},
		{"1 minute", "1 minute", time.Minute, false},
		{"5 minutes", "5 minutes", 5 * time.Minute, false},
		{"30 seconds", "30 seconds", 30 * time.Second, false},
		{"3 hours", "3 hours", 3 * time.Hour, false},
		{"7 days", "7 days", 7 * day, false},
		{"1 week", "1 week", 7 * day, false},
		{"1 month approx", "1 month", 30 * day, false},
		{"1 year approx", "1 year", 365 * day, false},
		{"mixed case", "3 HoUrS", 3 * time.Hour, false},
		{"extra space", " 1  day ", day, false},
		{"negative go duration", "-5m", 0, true},
		{"invalid format (missing value)", "hours", 0, true},
		{"invalid format (missing unit)", "3", 0, true},
		{"invalid unit", "3 decades", 0, true},
		{"zero quantity", "0 days", 0, true},
		{"non-integer quantity", "1.5 days", 0, true},
		{"empty string", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLookbackDuration(tt.input)

			if tt.expectErr {
				assert.Error(t, err, "Expected an error for input: %q", tt.input)
			} else if assert.NoError(t, err, "Did not expect an error for input: %q", tt.input) {
				assert.Equal(t, tt.want, got, "Duration mismatch for input: %q", tt.input)
			}
		})
	}
}

// FuzzParseRelativeTime fuzzes the ParseRelativeTime function with random inputs.
func FuzzParseRelativeTime(f *testing.F) {
	seeds := []string{
		"1 year ago",
		"3 weeks ago",
		"5 hours ago",
		"6 minutes ago",
		"0 seconds ago",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(_ *testing.T, input string) {
		_, _ = ParseRelativeTime(input, time.Now())
	})
}

// FuzzParseLookbackDuration fuzzes the ParseLookbackDuration function.
func FuzzParseLookbackDuration(f *testing.F) {
	seeds := []string{"1 year", "2 hours", "30m", "0 minutes"}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(_ *testing.T, input string) {
		_, _ = ParseLookbackDuration(input)
	})
}
