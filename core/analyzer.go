package core

import (
	"cmp"
	"slices"
	"time"

	"github.com/huangsam/dashline/schema"
	"gonum.org/v1/gonum/stat"
)

// Analyzer windows. The baseline ends where the recent window starts.
const (
	RecentWindow   = 5 * time.Minute
	BaselineWindow = 30 * time.Minute
	// IncreaseThreshold is how many times the baseline std-dev the recent one must exceed.
	IncreaseThreshold = 1.5
)

// windowStdDev returns the population std-dev of valid samples in (from, to].
// It returns 0 when the window holds no sample.
func windowStdDev(samples []schema.Sample, from, to time.Time) float64 {
	lo := float64(from.UnixMilli())
	hi := float64(to.UnixMilli())
	var values []float64
	for _, s := range samples {
		if !s.IsValid() {
			continue
		}
		ms := sampleMillis(s.Timestamp)
		if ms > lo && ms <= hi {
			values = append(values, s.Value)
		}
	}
	if len(values) == 0 {
		return 0
	}
	return stat.PopStdDev(values, nil)
}

// FindStdDevIncreases reports the series whose std-dev over the last five
// minutes before at is more than 1.5 times their std-dev over the thirty
// minutes before that. Results are sorted by series name.
func FindStdDevIncreases(series []schema.NamedSeries, at time.Time) []schema.StdDevIncrease {
	recentStart := at.Add(-RecentWindow)
	baselineStart := recentStart.Add(-BaselineWindow)

	results := make([]schema.StdDevIncrease, 0)
	for _, s := range series {
		past := windowStdDev(s.Samples, baselineStart, recentStart)
		last := windowStdDev(s.Samples, recentStart, at)
		if last <= past*IncreaseThreshold {
			continue
		}
		inc := schema.StdDevIncrease{
			Name:   s.Name,
			Labels: s.Labels,
			At:     at,
			Past:   past,
			Last:   last,
			Label:  "Critical",
		}
		// No baseline volatility leaves the ratio at 0.
		if past > 0 {
			inc.Ratio = last / past
			inc.Label = schema.GetIncreaseLabel(inc.Ratio)
		}
		results = append(results, inc)
	}
	slices.SortStableFunc(results, func(a, b schema.StdDevIncrease) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return results
}

// AnalyzeDashboard runs FindStdDevIncreases on every chart after filtering and naming its series.
func AnalyzeDashboard(d schema.Dashboard, filter LabelFilter, at time.Time) []schema.StdDevIncrease {
	var results []schema.StdDevIncrease
	for _, chart := range d.Charts {
		for _, inc := range FindStdDevIncreases(FilterAndName(chart, filter), at) {
			inc.Chart = chart.Name
			results = append(results, inc)
		}
	}
	if results == nil {
		results = []schema.StdDevIncrease{}
	}
	return results
}
