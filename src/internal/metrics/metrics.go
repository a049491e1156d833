// Package metrics exposes Prometheus metrics for lifecycle operations and the API.
package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/maksimkurb/wgvpc/src/internal/lifecycle"
)

var (
	once     sync.Once
	registry *Registry
)

// Registry holds all wgvpc metrics.
type Registry struct {
	// Lifecycle metrics
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	FailedItems       *prometheus.CounterVec
	RouterRunning     *prometheus.GaugeVec

	// API metrics
	APIRequests *prometheus.CounterVec
	APILatency  *prometheus.HistogramVec
}

// Get returns the global metrics registry, creating it if necessary.
func Get() *Registry {
	once.Do(func() {
		registry = newRegistry()
	})
	return registry
}

func newRegistry() *Registry {
	r := &Registry{}

	r.Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wgvpc_lifecycle_operations_total",
		Help: "Router lifecycle operations by outcome",
	}, []string{"operation", "outcome"})

	r.OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wgvpc_lifecycle_operation_duration_seconds",
		Help:    "Duration of router lifecycle operations",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"operation"})

	r.FailedItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wgvpc_lifecycle_failed_items_total",
		Help: "Failed steps of partially completed lifecycle operations",
	}, []string{"operation", "step"})

	r.RouterRunning = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wgvpc_router_running",
		Help: "Whether the router was left running by the last operation (1) or not (0)",
	}, []string{"router"})

	r.APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wgvpc_api_requests_total",
		Help: "API requests by method, route and status class",
	}, []string{"method", "route", "status"})

	r.APILatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wgvpc_api_request_duration_seconds",
		Help:    "API request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	return r
}

// Record implements lifecycle.Sink.
func (r *Registry) Record(event lifecycle.Event) {
	op := string(event.Operation)

	r.Operations.WithLabelValues(op, string(event.Outcome())).Inc()
	r.OperationDuration.WithLabelValues(op).Observe(event.Duration.Seconds())

	if event.Report != nil {
		for _, item := range event.Report.Failed() {
			r.FailedItems.WithLabelValues(op, item.Step).Inc()
		}
	}

	if event.Err != nil {
		return
	}
	switch event.Operation {
	case lifecycle.OpStart, lifecycle.OpRestart:
		r.RouterRunning.WithLabelValues(event.RouterID).Set(1)
	case lifecycle.OpStop:
		r.RouterRunning.WithLabelValues(event.RouterID).Set(0)
	}
}

// RecordAPIRequest records one API request; route is the matched route pattern.
func (r *Registry) RecordAPIRequest(method, route string, status int, duration float64) {
	r.APIRequests.WithLabelValues(method, route, statusString(status)).Inc()
	r.APILatency.WithLabelValues(method, route).Observe(duration)
}

func statusString(status int) string {
	if status < 100 || status > 599 {
		return strconv.Itoa(status)
	}
	return strconv.Itoa(status/100) + "xx"
}
