// Package schema has the models and constants shared by all parts of dashline.
package schema

import "time"

// NamedSeries is a single metric stream as delivered by the metrics source.
type NamedSeries struct {
	Name    string            `json:"name"`
	Labels  map[string]string `json:"labels,omitempty"`
	Samples []Sample          `json:"samples"`
}

// ChartSpec describes one chart of a dashboard and the metric streams feeding it.
type ChartSpec struct {
	Name     string        `json:"name"`
	Unit     string        `json:"unit"`
	AxisMode AxisMode      `json:"axisMode,omitempty"`
	Metrics  []NamedSeries `json:"metrics"`
}

// IsSeriesAxis reports whether the chart shows one latest value per series
// instead of a time axis.
func (c ChartSpec) IsSeriesAxis() bool {
	return c.AxisMode == SeriesAxisMode
}

// Dashboard is a titled set of charts.
type Dashboard struct {
	Title  string      `json:"title"`
	Charts []ChartSpec `json:"charts"`
}

// ChartNames returns the names of all charts in dashboard order.
func (d Dashboard) ChartNames() []string {
	names := make([]string, len(d.Charts))
	for i, c := range d.Charts {
		names[i] = c.Name
	}
	return names
}

// Window is an explicit [Min, Max] time window used to clip bucketing.
type Window struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}

// Bounds returns the window limits as axis values.
func (w Window) Bounds() (X, X) {
	return TimeX(w.Min), TimeX(w.Max)
}
