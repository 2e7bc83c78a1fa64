// Package ops serves the operational HTTP endpoints of the server:
// Prometheus metrics and a health probe.
package ops

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics owns the server's collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	rpcRequests     *prometheus.CounterVec
	rpcDuration     *prometheus.HistogramVec
	httpDuration    *prometheus.HistogramVec
	loginSuccess    prometheus.Counter
	loginFailure    *prometheus.CounterVec
	usersRegistered prometheus.Counter
	postsCreated    prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "microblog_grpc_requests_total",
			Help: "gRPC requests by method and status code.",
		}, []string{"method", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "microblog_grpc_request_duration_seconds",
			Help:    "Duration of gRPC requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "microblog_http_request_duration_seconds",
			Help:    "Duration of ops HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "microblog_login_success_total",
			Help: "Total successful login attempts.",
		}),
		loginFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "microblog_login_failure_total",
			Help: "Total failed login attempts.",
		}, []string{"reason"}),
		usersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "microblog_users_registered_total",
			Help: "Total users registered.",
		}),
		postsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "microblog_posts_created_total",
			Help: "Total posts created.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.rpcRequests, m.rpcDuration, m.httpDuration,
		m.loginSuccess, m.loginFailure, m.usersRegistered, m.postsCreated,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveRequest(method, code string, d time.Duration) {
	m.rpcRequests.WithLabelValues(method, code).Inc()
	m.rpcDuration.WithLabelValues(method).Observe(d.Seconds())
}

// LoginResult counts a login attempt. reason is ignored on success.
func (m *Metrics) LoginResult(ok bool, reason string) {
	if ok {
		m.loginSuccess.Inc()
		return
	}
	m.loginFailure.WithLabelValues(reason).Inc()
}

func (m *Metrics) UserRegistered() { m.usersRegistered.Inc() }

func (m *Metrics) PostCreated() { m.postsCreated.Inc() }
