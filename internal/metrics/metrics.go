// Package metrics holds the Prometheus collectors for the dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "coviddash"

type Metrics struct {
	FetchDuration *prometheus.HistogramVec
	Records       prometheus.Gauge
	RegionTotals  prometheus.Gauge
	LastLoad      prometheus.Gauge
	ChartRequests *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Time to fetch, load and aggregate the snapshot.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"outcome"}),
		Records: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records_loaded",
			Help:      "Raw records in the current snapshot.",
		}),
		RegionTotals: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "region_day_totals",
			Help:      "Region/day groups in the current snapshot.",
		}),
		LastLoad: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_load_timestamp_seconds",
			Help:      "Unix time of the last successful load.",
		}),
		ChartRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_requests_total",
			Help:      "Chart specs served, by chart.",
		}, []string{"chart"}),
	}
}
