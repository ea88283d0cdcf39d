// Package metrics holds the prometheus collectors for report runs and the http surface
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "usagereport"

var (
	runs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "report", Name: "runs_total",
		Help: "Report runs by outcome",
	}, []string{"outcome"})

	runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "report", Name: "run_duration_seconds",
		Help:    "Wall time of a full report run",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	})

	histograms = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "report", Name: "histograms_total",
		Help: "Histogram fills by granularity and outcome",
	}, []string{"granularity", "outcome"})

	queryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "store", Name: "query_duration_seconds",
		Help:    "Sample store statement latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	exports = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "export", Name: "steps_total",
		Help: "Export steps (csv, dump, archive, upload) by outcome",
	}, []string{"step", "outcome"})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "api", Name: "requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "code"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "api", Name: "request_duration_seconds",
		Help:    "HTTP request duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func init() {
	prometheus.MustRegister(runs, runDuration, histograms, queryDuration, exports, httpRequests, httpDuration)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveRun records a finished report run
func ObserveRun(d time.Duration, err error) {
	runs.WithLabelValues(outcome(err)).Inc()
	runDuration.Observe(d.Seconds())
}

// IncHistogram counts one histogram fill; partial fills are reported as "partial"
func IncHistogram(granularity string, complete bool) {
	o := "ok"
	if !complete {
		o = "partial"
	}
	histograms.WithLabelValues(granularity, o).Inc()
}

// ObserveQuery records one store statement; it matches store.QueryObserver
func ObserveQuery(_ string, d time.Duration, err error) {
	queryDuration.WithLabelValues(outcome(err)).Observe(d.Seconds())
}

// IncExport counts one export step
func IncExport(step string, err error) {
	exports.WithLabelValues(step, outcome(err)).Inc()
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// Instrument counts requests under a fixed route label
func Instrument(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(sw, r)
			httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(sw.code)).Inc()
			httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler exposes the default registry
func Handler() http.Handler { return promhttp.Handler() }
