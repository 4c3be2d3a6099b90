package core

import (
	"maps"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/huangsam/dashline/schema"
)

// LabelFilter selects and names the series of a chart.
type LabelFilter struct {
	// Values maps label name to label value to visibility. A value mapped to
	// false hides every series carrying it; unknown values stay visible.
	Values map[string]map[string]bool
	// Prettifier renders a label value for display. Nil keeps the raw value.
	Prettifier func(label, value string) string
	// Include holds glob patterns matched against series names. Empty means all.
	Include []string
}

// isVisible reports whether a series passes the label visibility rules.
func (f LabelFilter) isVisible(labels map[string]string) bool {
	for name, value := range labels {
		if visible, ok := f.Values[name][value]; ok && !visible {
			return false
		}
	}
	return true
}

// isIncluded reports whether a series name matches one of the include patterns.
func (f LabelFilter) isIncluded(name string) bool {
	if len(f.Include) == 0 {
		return true
	}
	for _, pattern := range f.Include {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// seriesName builds the display name of a series from its labels.
func (f LabelFilter) seriesName(s schema.NamedSeries, fallback string) string {
	if len(s.Labels) > 0 {
		keys := slices.Sorted(maps.Keys(s.Labels))
		parts := make([]string, len(keys))
		for i, k := range keys {
			if f.Prettifier != nil {
				parts[i] = f.Prettifier(k, s.Labels[k])
			} else {
				parts[i] = s.Labels[k]
			}
		}
		return strings.Join(parts, ",")
	}
	if s.Name != "" {
		return s.Name
	}
	return fallback
}

// FilterAndName applies the label filter to the chart metrics and names the survivors.
func FilterAndName(chart schema.ChartSpec, filter LabelFilter) []schema.NamedSeries {
	result := make([]schema.NamedSeries, 0, len(chart.Metrics))
	for _, s := range chart.Metrics {
		if !filter.isVisible(s.Labels) {
			continue
		}
		named := schema.NamedSeries{
			Name:    filter.seriesName(s, chart.Name),
			Labels:  s.Labels,
			Samples: s.Samples,
		}
		if !filter.isIncluded(named.Name) {
			continue
		}
		result = append(result, named)
	}
	return result
}

// GetDataSupplier returns a function producing the lines of a chart.
// Every call filters the metrics again and starts from a fresh color cursor,
// so repeated calls give identical colors.
func GetDataSupplier(chart schema.ChartSpec, filter LabelFilter, palette []string) func() []schema.Line[schema.LineInfo] {
	return func() []schema.Line[schema.LineInfo] {
		colors := NewColors(palette)
		filtered := FilterAndName(chart, filter)
		if chart.IsSeriesAxis() {
			return BuildSinglePointSeries(filtered, chart.Unit, colors)
		}
		return BuildSeriesSet(filtered, chart.Unit, colors)
	}
}
