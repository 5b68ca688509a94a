// Package telemetry exposes Prometheus metrics for the GraphQL APIs,
// order activity, background jobs and database access, and the optional
// OpenTelemetry trace and log pipelines.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopfront/backend/internal/domain/order"
	"github.com/shopfront/backend/internal/domain/shared"
)

const namespace = "shopfront"

// Operation outcome labels.
const (
	StatusOK          = "ok"
	StatusErrorResult = "error_result"
	StatusError       = "error"
)

// Registry owns the collectors served on /metrics.
type Registry struct {
	reg *prometheus.Registry
}

// NewRegistry creates a registry carrying the Go runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Registry{reg: reg}
}

func (r *Registry) Register(c prometheus.Collector) error {
	return r.reg.Register(c)
}

func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// GraphQLMetrics counts and times GraphQL operations per API.
type GraphQLMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func NewGraphQLMetrics(r *Registry) (*GraphQLMetrics, error) {
	m := &GraphQLMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "graphql",
			Name:      "operations_total",
			Help:      "GraphQL operations by API, operation name and outcome.",
		}, []string{"api", "operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "graphql",
			Name:      "operation_duration_seconds",
			Help:      "GraphQL operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"api", "operation"}),
	}
	if err := r.Register(m.operations); err != nil {
		return nil, err
	}
	if err := r.Register(m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// Observe records one executed operation. Anonymous operations are labelled "anonymous".
func (m *GraphQLMetrics) Observe(api, operation, status string, elapsed time.Duration) {
	if operation == "" {
		operation = "anonymous"
	}
	m.operations.WithLabelValues(api, operation, status).Inc()
	m.duration.WithLabelValues(api, operation).Observe(elapsed.Seconds())
}

// OrderEventCounter counts order events by type.
type OrderEventCounter struct {
	events *prometheus.CounterVec
}

func NewOrderEventCounter(r *Registry) (*OrderEventCounter, error) {
	c := &OrderEventCounter{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "events_total",
			Help:      "Order domain events by type.",
		}, []string{"type"}),
	}
	if err := r.Register(c.events); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *OrderEventCounter) EventTypes() []string {
	return []string{
		order.EventTypeOrderCreated,
		order.EventTypeOrderLineAdded,
		order.EventTypeOrderLineUpdated,
		order.EventTypeOrderLineRemoved,
		order.EventTypeOrderStateTransition,
	}
}

func (c *OrderEventCounter) Handle(ctx context.Context, event shared.DomainEvent) error {
	c.events.WithLabelValues(event.EventType()).Inc()
	return nil
}

var _ shared.EventHandler = (*OrderEventCounter)(nil)

// JobMetrics counts finished background jobs and their retries.
type JobMetrics struct {
	runs    *prometheus.CounterVec
	retries *prometheus.CounterVec
}

func NewJobMetrics(r *Registry) (*JobMetrics, error) {
	m := &JobMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "Finished background jobs by name and final status.",
		}, []string{"job", "status"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "retries_total",
			Help:      "Background job retries by name.",
		}, []string{"job"}),
	}
	if err := r.Register(m.runs); err != nil {
		return nil, err
	}
	if err := r.Register(m.retries); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *JobMetrics) Observe(job, status string, retries int) {
	m.runs.WithLabelValues(job, status).Inc()
	if retries > 0 {
		m.retries.WithLabelValues(job).Add(float64(retries))
	}
}
