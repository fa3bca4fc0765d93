// Package metrics содержит Prometheus-коллекторы сервиса записи.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "barbershop"

// Исходы операций.
const (
	OutcomeCreated     = "created"
	OutcomeConflict    = "conflict"
	OutcomeInvalid     = "invalid"
	OutcomeError       = "error"
	OutcomeSuccess     = "success"
	OutcomeBadPassword = "invalid_credentials"
)

// Metrics набор коллекторов.
type Metrics struct {
	Bookings     *prometheus.CounterVec
	Logins       *prometheus.CounterVec
	AccessDenied *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New создаёт коллекторы и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "Appointment creation attempts by outcome.",
		}, []string{"outcome"}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		AccessDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_denied_total",
			Help:      "Requests redirected to login by the route guard.",
		}, []string{"reason"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.Bookings, m.Logins, m.AccessDenied, m.HTTPDuration)
	return m
}

// NewNop коллекторы без регистрации. Для тестов и воркеров без /metrics.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

// Booking увеличивает счётчик попыток записи.
func (m *Metrics) Booking(outcome string) {
	if m == nil {
		return
	}
	m.Bookings.WithLabelValues(outcome).Inc()
}

// Login увеличивает счётчик попыток входа.
func (m *Metrics) Login(outcome string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(outcome).Inc()
}

// Denied увеличивает счётчик отказов доступа.
func (m *Metrics) Denied(reason string) {
	if m == nil {
		return
	}
	m.AccessDenied.WithLabelValues(reason).Inc()
}

// ObserveRequest записывает длительность обработки запроса.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
