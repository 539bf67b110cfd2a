// Package metrics exposes the blackbox pipeline's prometheus counters and
// gauges.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingest metrics
	PacketsReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blackbox_packets_received_total",
			Help: "Total number of log packets received",
		},
		[]string{"protocol"},
	)

	PacketsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blackbox_packets_dropped_total",
			Help: "Total number of log packets dropped",
		},
		[]string{"reason"},
	)

	InboundChunksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blackbox_inbound_chunks_total",
			Help: "Total number of TCP read_some chunks received",
		},
	)

	// Ring metrics
	RingDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blackbox_ring_depth",
			Help: "Current number of events queued in the ring buffer",
		},
	)

	// Classification metrics
	InferencesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blackbox_inferences_total",
			Help: "Total number of anomaly scorer invocations",
		},
	)

	ThreatsDetectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blackbox_threats_detected_total",
			Help: "Total number of logs classified as critical threats",
		},
	)

	ParseErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blackbox_parse_errors_total",
			Help: "Total number of log parse failures",
		},
	)

	// Storage metrics
	DBRowsWrittenTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blackbox_db_rows_written_total",
			Help: "Total number of rows flushed to the analytics sink",
		},
	)

	DBErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blackbox_db_errors_total",
			Help: "Total number of failed analytics sink flushes",
		},
	)

	// Defense metrics
	BlockedSources = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blackbox_blocked_sources",
			Help: "Current number of blocked sources",
		},
	)

	AlertsPublishedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blackbox_alerts_published_total",
			Help: "Total number of alerts published on the pub/sub channel",
		},
	)

	PublishErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blackbox_publish_errors_total",
			Help: "Total number of pub/sub publish failures",
		},
	)

	RateLimitDeniedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blackbox_rate_limit_denied_total",
			Help: "Total number of admission attempts denied by the rate limiter",
		},
	)
)
