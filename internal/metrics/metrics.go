// Package metrics содержит счётчики Prometheus для HTTP-запросов и событий зала.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics объединяет все счётчики приложения. Нулевой указатель допустим:
// методы ничего не делают, что удобно в тестах сервисов.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	subscriptions       *prometheus.CounterVec
	checkIns            *prometheus.CounterVec
	checkOuts           prometheus.Counter
	logins              *prometheus.CounterVec
}

// New создаёт счётчики и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		subscriptions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gym_subscriptions_created_total",
				Help: "Paid subscriptions created, by membership type",
			},
			[]string{"type"},
		),
		checkIns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gym_check_ins_total",
				Help: "Member check-ins, by fingerprint verification result",
			},
			[]string{"verified"},
		),
		checkOuts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "gym_check_outs_total",
				Help: "Member check-outs",
			},
		),
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gym_logins_total",
				Help: "Login attempts, by result",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.subscriptions,
		m.checkIns,
		m.checkOuts,
		m.logins,
	)
	return m
}

// ObserveRequest учитывает завершённый HTTP-запрос.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// SubscriptionCreated учитывает созданную подписку.
func (m *Metrics) SubscriptionCreated(membershipType string) {
	if m == nil {
		return
	}
	m.subscriptions.WithLabelValues(membershipType).Inc()
}

// CheckedIn учитывает отметку входа.
func (m *Metrics) CheckedIn(verified bool) {
	if m == nil {
		return
	}
	m.checkIns.WithLabelValues(strconv.FormatBool(verified)).Inc()
}

// CheckedOut учитывает отметку выхода.
func (m *Metrics) CheckedOut() {
	if m == nil {
		return
	}
	m.checkOuts.Inc()
}

// Login учитывает попытку входа: ok, invalid_credentials, inactive или error.
func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}
