// Package dashfile reads and writes dashboard documents.
package dashfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/dashline/schema"
	"github.com/prometheus/common/model"
	"gopkg.in/yaml.v3"
)

// ErrChartNotFound is returned when a dashboard has no chart with the requested name.
var ErrChartNotFound = errors.New("chart not found")

// document is the on-disk form of a dashboard.
type document struct {
	Title  string          `json:"title"`
	Charts []chartDocument `json:"charts"`
}

// chartDocument accepts native series and a Prometheus range-query matrix side by side.
type chartDocument struct {
	Name     string               `json:"name"`
	Unit     string               `json:"unit"`
	AxisMode string               `json:"axisMode,omitempty"`
	Metrics  []schema.NamedSeries `json:"metrics,omitempty"`
	Matrix   model.Matrix         `json:"matrix,omitempty"`
}

// Load reads a dashboard from a JSON or YAML file. The format is picked by extension;
// anything other than .yaml or .yml is read as JSON.
func Load(path string) (schema.Dashboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Dashboard{}, fmt.Errorf("failed to read dashboard file %q: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON decodes a dashboard from JSON.
func ParseJSON(data []byte) (schema.Dashboard, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return schema.Dashboard{}, fmt.Errorf("invalid dashboard document: %w", err)
	}
	return doc.toDashboard()
}

// ParseYAML decodes a dashboard from YAML. The YAML tree is converted to JSON so
// that samples and matrices share one decoder with ParseJSON.
func ParseYAML(data []byte) (schema.Dashboard, error) {
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return schema.Dashboard{}, fmt.Errorf("invalid dashboard YAML: %w", err)
	}
	if tree == nil {
		return schema.Dashboard{}, errors.New("dashboard document is empty")
	}
	asJSON, err := json.Marshal(jsonSafe(tree))
	if err != nil {
		return schema.Dashboard{}, fmt.Errorf("cannot convert dashboard YAML: %w", err)
	}
	return ParseJSON(asJSON)
}

// jsonSafe rewrites a decoded YAML tree so it can be encoded as JSON. Non-finite
// floats such as .nan and .inf become their Prometheus text form, and non-string
// mapping keys are formatted as strings.
func jsonSafe(node any) any {
	switch v := node.(type) {
	case float64:
		switch {
		case math.IsNaN(v):
			return "NaN"
		case math.IsInf(v, 1):
			return "+Inf"
		case math.IsInf(v, -1):
			return "-Inf"
		}
		return v
	case []any:
		for i := range v {
			v[i] = jsonSafe(v[i])
		}
		return v
	case map[string]any:
		for k, item := range v {
			v[k] = jsonSafe(item)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[fmt.Sprint(k)] = jsonSafe(item)
		}
		return out
	}
	return node
}

// Marshal encodes a dashboard as indented JSON. Matrices are folded into metrics.
func Marshal(d schema.Dashboard) ([]byte, error) {
	doc := document{Title: d.Title, Charts: make([]chartDocument, len(d.Charts))}
	for i, c := range d.Charts {
		doc.Charts[i] = chartDocument{
			Name:     c.Name,
			Unit:     c.Unit,
			AxisMode: string(c.AxisMode),
			Metrics:  c.Metrics,
		}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// FindChart returns the chart with the given name.
func FindChart(d schema.Dashboard, name string) (schema.ChartSpec, error) {
	for _, c := range d.Charts {
		if c.Name == name {
			return c, nil
		}
	}
	return schema.ChartSpec{}, fmt.Errorf("%w: %q (available: %s)", ErrChartNotFound, name, strings.Join(d.ChartNames(), ", "))
}

// SelectCharts returns every chart, or only the named one when name is not empty.
func SelectCharts(d schema.Dashboard, name string) ([]schema.ChartSpec, error) {
	if name == "" {
		return d.Charts, nil
	}
	c, err := FindChart(d, name)
	if err != nil {
		return nil, err
	}
	return []schema.ChartSpec{c}, nil
}

func (doc document) toDashboard() (schema.Dashboard, error) {
	d := schema.Dashboard{Title: doc.Title, Charts: make([]schema.ChartSpec, 0, len(doc.Charts))}
	seen := make(map[string]struct{}, len(doc.Charts))
	for i, c := range doc.Charts {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return schema.Dashboard{}, fmt.Errorf("chart #%d has no name", i+1)
		}
		if _, dup := seen[name]; dup {
			return schema.Dashboard{}, fmt.Errorf("duplicate chart name %q", name)
		}
		seen[name] = struct{}{}

		mode := schema.AxisMode(strings.ToLower(c.AxisMode))
		if mode == "" {
			mode = schema.TimeAxisMode
		}
		if _, ok := schema.ValidAxisModes[mode]; !ok {
			return schema.Dashboard{}, fmt.Errorf("chart %q has invalid axisMode '%s'. must be time, series", name, c.AxisMode)
		}

		metrics := make([]schema.NamedSeries, 0, len(c.Metrics)+len(c.Matrix))
		metrics = append(metrics, c.Metrics...)
		metrics = append(metrics, FromMatrix(c.Matrix)...)
		d.Charts = append(d.Charts, schema.ChartSpec{
			Name:     name,
			Unit:     c.Unit,
			AxisMode: mode,
			Metrics:  metrics,
		})
	}
	return d, nil
}

// FromMatrix converts a Prometheus range-query result into named series.
// The metric name becomes the series name and is removed from the labels.
func FromMatrix(matrix model.Matrix) []schema.NamedSeries {
	series := make([]schema.NamedSeries, 0, len(matrix))
	for _, stream := range matrix {
		labels := make(map[string]string, len(stream.Metric))
		for k, v := range stream.Metric {
			if k == model.MetricNameLabel {
				continue
			}
			labels[string(k)] = string(v)
		}
		samples := make([]schema.Sample, len(stream.Values))
		for i, pair := range stream.Values {
			samples[i] = schema.Sample{
				Timestamp: float64(pair.Timestamp) / 1000,
				Value:     float64(pair.Value),
			}
		}
		series = append(series, schema.NamedSeries{
			Name:    string(stream.Metric[model.MetricNameLabel]),
			Labels:  labels,
			Samples: samples,
		})
	}
	return series
}
