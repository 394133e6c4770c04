package weather

import (
	"fmt"
	"strings"
)

// Metric names a daily series field.
type Metric string

const (
	TempMeanC Metric = "temp_mean_c"
	TempMaxC  Metric = "temp_max_c"
	TempMinC  Metric = "temp_min_c"
	RainMM    Metric = "rain_mm"
	WindKmh   Metric = "wind_kmh"
)

// Metrics lists every supported metric in canonical order.
var Metrics = []Metric{TempMeanC, TempMaxC, TempMinC, RainMM, WindKmh}

// DefaultMetrics is used when a series request names no metrics.
var DefaultMetrics = NewMetricSet(TempMeanC)

// MetricSet is an order-insensitive set of metrics.
type MetricSet uint8

// NewMetricSet builds a set from known metrics; unknown values are ignored.
func NewMetricSet(ms ...Metric) MetricSet {
	var s MetricSet
	for _, m := range ms {
		if bit, ok := metricBit(m); ok {
			s |= bit
		}
	}
	return s
}

// ParseMetrics validates names and collapses duplicates. No names yields
// DefaultMetrics; an empty name is rejected like any other unknown one.
func ParseMetrics(names []string) (MetricSet, error) {
	var s MetricSet
	for _, name := range names {
		name = strings.TrimSpace(name)
		bit, ok := metricBit(Metric(name))
		if !ok {
			return 0, &ValidationError{
				Field:   "metrics",
				Message: fmt.Sprintf("unknown metric %q; allowed: %s", name, metricNames()),
			}
		}
		s |= bit
	}
	if s == 0 {
		return DefaultMetrics, nil
	}
	return s, nil
}

// Has reports whether m is in the set.
func (s MetricSet) Has(m Metric) bool {
	bit, ok := metricBit(m)
	return ok && s&bit != 0
}

// List returns the members in canonical order.
func (s MetricSet) List() []Metric {
	out := make([]Metric, 0, len(Metrics))
	for _, m := range Metrics {
		if s.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

func metricBit(m Metric) (MetricSet, bool) {
	for i, known := range Metrics {
		if known == m {
			return 1 << i, true
		}
	}
	return 0, false
}

func metricNames() string {
	names := make([]string, len(Metrics))
	for i, m := range Metrics {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
