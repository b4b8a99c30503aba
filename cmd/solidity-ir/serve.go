package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"solidity-ir/evm/coverage"
	"solidity-ir/pkg/config"
)

var (
	coverageRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solidity_ir_coverage_requests_total",
		Help: "HTTP requests served by the coverage API, by route and status class.",
	}, []string{"route", "status"})

	coverageRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "solidity_ir_coverage_request_duration_seconds",
		Help:    "Latency of coverage API handlers.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)

// coverageServer exposes one bundle's coverage rollups over HTTP, for a
// CI dashboard or a local "what did my last test run hit" check.
type coverageServer struct {
	bundle *bundle
}

func (s *coverageServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Get("/api/functions", instrument("/api/functions", s.handleFunctions))
	r.Get("/api/lines", instrument("/api/lines", s.handleLines))
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// instrument wraps a handler with a Prometheus request counter and latency
// histogram, labelled by route, so the serve subcommand can be scraped by
// the same Prometheus deployment that watches the rest of the fleet.
func instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		timer := prometheus.NewTimer(coverageRequestDuration.WithLabelValues(route))
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, req)
		timer.ObserveDuration()
		coverageRequests.WithLabelValues(route, statusClass(rec.status)).Inc()
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	default:
		return "2xx"
	}
}

func (s *coverageServer) handleFunctions(w http.ResponseWriter, req *http.Request) {
	su, err := s.bundle.decode()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	pcmap, err := s.bundle.pcmap(su.Tree())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	r := s.bundle.coverageReport(pcmap)
	writeJSON(w, coverage.FunctionCoverage(r, pcmap))
}

func (s *coverageServer) handleLines(w http.ResponseWriter, req *http.Request) {
	su, err := s.bundle.decode()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	pcmap, err := s.bundle.pcmap(su.Tree())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	r := s.bundle.coverageReport(pcmap)
	lines := coverage.SourceLineCoverage(r, pcmap)
	out := make(map[string]uint64, len(lines))
	for key, hits := range lines {
		out[fmt.Sprintf("%d:%d:%d", key.FileID, key.Offset, key.Length)] = hits
	}
	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve [bundle.json]",
		Short: "serve a bundle's coverage rollups over HTTP, with Prometheus metrics on /metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBundle(args[0])
			if err != nil {
				return err
			}
			addr := config.AppConfig.HTTP.ListenAddr
			s := &coverageServer{bundle: b}
			logger.Printf("listening on %s", addr)
			return http.ListenAndServe(addr, s.routes())
		},
	}
}
