// Package metrics registers Prometheus instrumentation for the screener cycle.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "screener_cycles_total", Help: "Completed screening cycles"},
	)
	CandidatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "screener_candidates_total", Help: "Candidate pairs evaluated"},
	)
	QualifiedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "screener_qualified_total", Help: "Pairs that passed market evaluation"},
	)
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "screener_signals_total", Help: "Trade signals emitted"},
		[]string{"state"},
	)
	FetchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "screener_fetch_errors_total", Help: "Upstream fetch failures"},
		[]string{"source"},
	)
	TrackedPairs = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "screener_tracked_pairs", Help: "Pairs currently in the tracking ledger"},
	)
)

func init() {
	prometheus.MustRegister(CyclesTotal, CandidatesTotal, QualifiedTotal, SignalsTotal, FetchErrorsTotal, TrackedPairs)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
