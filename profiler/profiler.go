package profiler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector exported by this module.
func Registry() *prometheus.Registry {
	r := prometheus.NewRegistry()
	r.MustRegister(Handshakes)
	r.MustRegister(Verifications)
	r.MustRegister(ProfileBuilds)
	r.MustRegister(HandshakeLatency)
	return r
}

// Handler serves the module's metrics in the prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{})
}

// StartProfiler serves /metrics on addr until the listener fails.
func StartProfiler(addr string) error {
	m := http.NewServeMux()
	m.Handle("/metrics", Handler())
	return http.ListenAndServe(addr, m)
}
