package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nara"

// Result label values.
const (
	ResultOK        = "ok"
	ResultMalformed = "malformed"
	ResultUnknown   = "unknown_entity"
	ResultIgnored   = "ignored"
	ResultInvalid   = "invalid"
	ResultOffline   = "not_connected"
	ResultError     = "error"
)

// Metrics contains the service metrics, registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	IngestMessages  *prometheus.CounterVec
	Commands        *prometheus.CounterVec
	BrokerConnected prometheus.Gauge
	EventLogEntries prometheus.Gauge
}

// NewMetrics creates and registers all metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		IngestMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ingest",
				Name:      "messages_total",
				Help:      "Inbound status messages by topic kind and outcome",
			},
			[]string{"kind", "result"},
		),

		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Dispatched commands by target mode and outcome",
			},
			[]string{"mode", "result"},
		),

		BrokerConnected: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "broker",
				Name:      "connected",
				Help:      "Broker session status (0=not subscribed, 1=subscribed)",
			},
		),

		EventLogEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "event_log",
				Name:      "entries",
				Help:      "Entries currently held in the event log",
			},
		),
	}

	m.registry.MustRegister(m.IngestMessages, m.Commands, m.BrokerConnected, m.EventLogEntries)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// The helpers below are nil-safe so components can run without metrics.

func (m *Metrics) ObserveIngest(kind, result string) {
	if m == nil {
		return
	}
	m.IngestMessages.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) ObserveCommand(mode, result string) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(mode, result).Inc()
}

func (m *Metrics) SetBrokerConnected(connected bool) {
	if m == nil {
		return
	}
	if connected {
		m.BrokerConnected.Set(1)
		return
	}
	m.BrokerConnected.Set(0)
}

func (m *Metrics) SetEventLogEntries(n int) {
	if m == nil {
		return
	}
	m.EventLogEntries.Set(float64(n))
}
