// Package metrics exports conversion run counters in the Prometheus text
// format, for the node exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/twinfer/ricograph/geocode"
	"github.com/twinfer/ricograph/mapping"
)

const namespace = "ricograph"

// Metrics holds the run metrics on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	SheetsProcessed   prometheus.Counter
	SheetsSkipped     *prometheus.CounterVec
	RulesSkipped      prometheus.Counter
	RowsSkipped       *prometheus.CounterVec
	Dropped           prometheus.Counter
	SenderLinks       prometheus.Counter
	SendersPropagated prometheus.Counter
	Statements        prometheus.Gauge
	GeocodeLookups    *prometheus.CounterVec
	RunDuration       prometheus.Gauge
	LastRun           prometheus.Gauge
}

// New creates and registers the run metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SheetsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "sheets_processed_total",
			Help: "Mapping sheets converted.",
		}),
		SheetsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "sheets_skipped_total",
			Help: "Mapping sheets skipped, by reason.",
		}, []string{"reason"}),
		RulesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "rules_skipped_total",
			Help: "Mapping rules without subject column or predicate, or typing rules.",
		}),
		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "rows_skipped_total",
			Help: "Rule and row pairs that produced no statement, by reason.",
		}, []string{"reason"}),
		Dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "statements_dropped_total",
			Help: "Main statements rejected by the output guards.",
		}),
		SenderLinks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "sender_links_total",
			Help: "Intermediate sender links consumed by propagation.",
		}),
		SendersPropagated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "senders_propagated_total",
			Help: "hasSender statements written by propagation.",
		}),
		Statements: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "statements",
			Help: "Statements in the graph after the last run.",
		}),
		GeocodeLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "geocode_lookups_total",
			Help: "Place lookups, by result.",
		}, []string{"result"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "run_duration_seconds",
			Help: "Wall time of the last run.",
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		}),
	}
	m.registry.MustRegister(
		m.SheetsProcessed,
		m.SheetsSkipped,
		m.RulesSkipped,
		m.RowsSkipped,
		m.Dropped,
		m.SenderLinks,
		m.SendersPropagated,
		m.Statements,
		m.GeocodeLookups,
		m.RunDuration,
		m.LastRun,
	)
	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveReport adds a run report to the counters.
func (m *Metrics) ObserveReport(r mapping.Report) {
	m.SheetsProcessed.Add(float64(r.SheetsProcessed))
	for reason, n := range r.SheetsSkipped {
		m.SheetsSkipped.WithLabelValues(string(reason)).Add(float64(n))
	}
	m.RulesSkipped.Add(float64(r.RulesSkipped))
	for reason, n := range r.RowsSkipped {
		m.RowsSkipped.WithLabelValues(string(reason)).Add(float64(n))
	}
	m.Dropped.Add(float64(r.Dropped))
	m.SenderLinks.Add(float64(r.SenderLinks))
	m.SendersPropagated.Add(float64(r.SendersPropagated))
	m.Statements.Set(float64(r.Statements))
}

// ObserveGeocoder records resolver statistics.
func (m *Metrics) ObserveGeocoder(s geocode.Stats) {
	m.GeocodeLookups.WithLabelValues("cached").Add(float64(s.CacheHits))
	m.GeocodeLookups.WithLabelValues("found").Add(float64(s.Found))
	if s.Lookups >= s.CacheHits+s.Found {
		m.GeocodeLookups.WithLabelValues("not_found").Add(float64(s.Lookups - s.CacheHits - s.Found))
	}
}

// ObserveRun records the run duration and completion time.
func (m *Metrics) ObserveRun(d time.Duration, finished time.Time) {
	m.RunDuration.Set(d.Seconds())
	m.LastRun.Set(float64(finished.Unix()))
}

// WriteTextfile writes every metric to path, atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
