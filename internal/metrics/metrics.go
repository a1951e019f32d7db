// Package metrics exposes Prometheus collectors for the HTTP layer and the
// social operations. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "social"

// Operation results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Toggle directions.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

type Metrics struct {
	registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	registrations   *prometheus.CounterVec
	logins          *prometheus.CounterVec
	friendToggles   *prometheus.CounterVec
	likeToggles     *prometheus.CounterVec
	postsCreated    prometheus.Counter
	conflictRetries *prometheus.CounterVec
}

// New creates collectors registered on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method", "route"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "identity",
			Name:      "registrations_total",
			Help:      "Registration attempts by result.",
		}, []string{"result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "identity",
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		friendToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "friend_toggles_total",
			Help:      "Friend edges added or removed.",
		}, []string{"action"}),
		likeToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engagement",
			Name:      "like_toggles_total",
			Help:      "Likes added or removed.",
		}, []string{"action"}),
		postsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engagement",
			Name:      "posts_created_total",
			Help:      "Posts published.",
		}),
		conflictRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "conflict_retries_total",
			Help:      "Versioned writes retried after a revision conflict.",
		}, []string{"entity"}),
	}

	m.registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.registrations,
		m.logins,
		m.friendToggles,
		m.likeToggles,
		m.postsCreated,
		m.conflictRetries,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) RequestStarted() {
	if m == nil {
		return
	}
	m.httpInFlight.Inc()
}

func (m *Metrics) RequestFinished(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpInFlight.Dec()
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) RecordRegistration(result string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordLogin(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordFriendToggle(action string) {
	if m == nil {
		return
	}
	m.friendToggles.WithLabelValues(action).Inc()
}

func (m *Metrics) RecordLikeToggle(action string) {
	if m == nil {
		return
	}
	m.likeToggles.WithLabelValues(action).Inc()
}

func (m *Metrics) RecordPostCreated() {
	if m == nil {
		return
	}
	m.postsCreated.Inc()
}

func (m *Metrics) RecordConflictRetry(entity string) {
	if m == nil {
		return
	}
	m.conflictRetries.WithLabelValues(entity).Inc()
}
