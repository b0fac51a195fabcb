package profiler

import "github.com/prometheus/client_golang/prometheus"

var (
	Handshakes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tlsconnector",
		Subsystem: "session",
		Help:      "Count of TLS handshakes by outcome and role",
		Name:      "handshakes_total",
	}, []string{"status", "role"})

	Verifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tlsconnector",
		Subsystem: "verify",
		Help:      "Count of peer certificate verification decisions",
		Name:      "decisions_total",
	}, []string{"outcome", "strategy"})

	ProfileBuilds = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tlsconnector",
		Subsystem: "profile",
		Help:      "Count of finalized configuration profiles",
		Name:      "builds_total",
	}, []string{"profile", "status"})

	HandshakeLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tlsconnector",
		Subsystem: "session",
		Help:      "Histogram of handshake duration in milliseconds",
		Name:      "handshake_ms",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"role"})
)
