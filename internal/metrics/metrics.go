// Package metrics records Prometheus metrics from bus events.
package metrics

import (
	"context"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	eventbus "github.com/hanpama/bookgraph/internal/eventbus"
	events "github.com/hanpama/bookgraph/internal/events"
	store "github.com/hanpama/bookgraph/internal/store"
)

// Metrics owns a private registry and the collectors fed by Attach.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	entitiesCreated   *prometheus.CounterVec
}

// New registers the collectors under namespace (may be empty) on a fresh
// registry, together with the Go runtime and process collectors.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by status code",
			},
			[]string{"code"},
		),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "graphql_operations_total",
				Help:      "Total number of GraphQL operations by type and outcome",
			},
			[]string{"type", "outcome"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "graphql_operation_duration_seconds",
				Help:      "Duration of GraphQL operations in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"type"},
		),
		entitiesCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "entities_created_total",
				Help:      "Total number of entities created by mutations",
			},
			[]string{"kind"},
		),
	}
	m.registry.MustRegister(
		m.httpRequests,
		m.operations,
		m.operationDuration,
		m.entitiesCreated,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveStore exports the current number of stored entities per kind.
func (m *Metrics) ObserveStore(namespace string, st *store.Store) {
	for _, kind := range []string{events.KindAuthor, events.KindBook} {
		m.registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace:   namespace,
				Name:        "store_entities",
				Help:        "Number of entities currently in the store",
				ConstLabels: prometheus.Labels{"kind": kind},
			},
			func() float64 {
				authors, books := st.Counts()
				if kind == events.KindAuthor {
					return float64(authors)
				}
				return float64(books)
			},
		))
	}
}

// Attach feeds the collectors from the global bus and returns a function
// that detaches them.
func (m *Metrics) Attach() (detach func()) {
	unsubs := []func(){
		eventbus.Subscribe(func(_ context.Context, e events.HTTPFinish) {
			m.httpRequests.WithLabelValues(strconv.Itoa(e.Status)).Inc()
		}),
		eventbus.Subscribe(func(_ context.Context, e events.GraphQLFinish) {
			typ := e.OperationType
			if typ == "" {
				typ = "unknown"
			}
			m.operations.WithLabelValues(typ, e.Outcome()).Inc()
			m.operationDuration.WithLabelValues(typ).Observe(e.Duration.Seconds())
		}),
		eventbus.Subscribe(func(_ context.Context, e events.EntityAdded) {
			m.entitiesCreated.WithLabelValues(e.Kind).Inc()
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Registry exposes the registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
