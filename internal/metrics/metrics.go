// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sweeney/humidistat/internal/logic"
)

const namespace = "humidistat"

// Metrics groups every collector of the daemon.
type Metrics struct {
	Temperature  prometheus.Gauge
	Humidity     prometheus.Gauge
	ICA          prometheus.Gauge
	DeviceOn     prometheus.Gauge
	Mode         *prometheus.GaugeVec
	Routines     prometheus.Gauge
	Events       *prometheus.CounterVec
	ParseIssues  prometheus.Counter
	SensorErrors prometheus.Counter
	RemoteErrors *prometheus.CounterVec

	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.SummaryVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Temperature: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "temperature_celsius",
			Help: "last temperature reading",
		}),
		Humidity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "humidity_percent",
			Help: "last relative humidity reading",
		}),
		ICA: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "comfort_index",
			Help: "air comfort index derived from the last reading",
		}),
		DeviceOn: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "device_on",
			Help: "1 if the actuator is on",
		}),
		Mode: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "device_mode",
			Help: "1 for the active mode",
		}, []string{"mode"}),
		Routines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "routines",
			Help: "number of loaded routines",
		}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "events_total",
			Help: "device state transitions",
		}, []string{"type"}),
		ParseIssues: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "routine_parse_issues_total",
			Help: "routine fields that could not be decoded",
		}),
		SensorErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "sensor_errors_total",
			Help: "failed sensor reads",
		}),
		RemoteErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "remote_errors_total",
			Help: "failed calls to the configuration service",
		}, []string{"op"}),
		requestCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "remote", Name: "http_requests_total",
			Help: "total number of http requests",
		}, []string{"code", "method"}),
		requestDuration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Namespace: namespace, Subsystem: "remote", Name: "http_request_duration_seconds",
			Help: "duration of http requests",
		}, []string{"code", "method"}),
	}

	reg.MustRegister(
		m.Temperature, m.Humidity, m.ICA, m.DeviceOn, m.Mode, m.Routines,
		m.Events, m.ParseIssues, m.SensorErrors, m.RemoteErrors,
		m.requestCounter, m.requestDuration,
	)
	return m
}

// InstrumentTransport wraps rt so every request to the service is counted
// and timed. A nil rt uses http.DefaultTransport.
func (m *Metrics) InstrumentTransport(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperCounter(m.requestCounter,
		promhttp.InstrumentRoundTripperDuration(m.requestDuration, rt),
	)
}

// ObserveReading records a successful sensor sample.
func (m *Metrics) ObserveReading(r logic.Reading, ica int) {
	m.Temperature.Set(r.Temperature)
	m.Humidity.Set(r.Humidity)
	m.ICA.Set(float64(ica))
}

// ObserveState records the reconciled actuator state.
func (m *Metrics) ObserveState(s logic.DeviceState) {
	on := 0.0
	if s.On {
		on = 1
	}
	m.DeviceOn.Set(on)
	current := s.Mode
	if current == "" {
		current = logic.ModeNone
	}
	for _, mode := range []logic.Mode{logic.ModeNone, logic.ModeDehumidify, logic.ModeHumidify} {
		v := 0.0
		if current == mode {
			v = 1
		}
		m.Mode.WithLabelValues(string(mode)).Set(v)
	}
}

// ObserveEvents counts transitions by type.
func (m *Metrics) ObserveEvents(events []logic.Event) {
	for _, e := range events {
		m.Events.WithLabelValues(string(e.Type)).Inc()
	}
}
