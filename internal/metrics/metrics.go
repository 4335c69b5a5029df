// Package metrics provides Prometheus metrics for props, wagers and sessions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects domain metrics in a private registry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	PropsTotal         *prometheus.CounterVec
	WagersTotal        *prometheus.CounterVec
	BananasWagered     *prometheus.CounterVec
	VerificationsTotal *prometheus.CounterVec
	RealtimeClients    prometheus.Gauge
	RealtimeEvents     *prometheus.CounterVec
}

// New creates the collectors and registers them together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		PropsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "monkeybets_props_total",
				Help: "Props by lifecycle action",
			},
			[]string{"action"},
		),
		WagersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "monkeybets_wagers_total",
				Help: "Wagers placed by side",
			},
			[]string{"side"},
		),
		BananasWagered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "monkeybets_bananas_wagered_total",
				Help: "Bananas staked by side",
			},
			[]string{"side"},
		),
		VerificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "monkeybets_verifications_total",
				Help: "SMS verification requests by action and status",
			},
			[]string{"action", "status"},
		),
		RealtimeClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "monkeybets_realtime_clients",
				Help: "Connected realtime websocket clients",
			},
		),
		RealtimeEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "monkeybets_realtime_events_total",
				Help: "Change notifications published by table",
			},
			[]string{"table"},
		),
	}

	m.registry.MustRegister(
		m.PropsTotal,
		m.WagersTotal,
		m.BananasWagered,
		m.VerificationsTotal,
		m.RealtimeClients,
		m.RealtimeEvents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// --- Helper methods for recording metrics ---

// RecordProp counts a prop lifecycle action: created, resolved or deleted.
func (m *Metrics) RecordProp(action string) {
	if m == nil {
		return
	}
	m.PropsTotal.WithLabelValues(action).Inc()
}

// RecordWager counts a placed wager and its stake.
func (m *Metrics) RecordWager(side string, bananas int64) {
	if m == nil {
		return
	}
	m.WagersTotal.WithLabelValues(side).Inc()
	m.BananasWagered.WithLabelValues(side).Add(float64(bananas))
}

// RecordVerification counts a send or check against the SMS provider.
func (m *Metrics) RecordVerification(action, status string) {
	if m == nil {
		return
	}
	m.VerificationsTotal.WithLabelValues(action, status).Inc()
}

// RealtimeClientConnected adjusts the connected client gauge by delta.
func (m *Metrics) RealtimeClientConnected(delta int) {
	if m == nil {
		return
	}
	m.RealtimeClients.Add(float64(delta))
}

// RecordRealtimeEvent counts a published change notification.
func (m *Metrics) RecordRealtimeEvent(table string) {
	if m == nil {
		return
	}
	m.RealtimeEvents.WithLabelValues(table).Inc()
}
