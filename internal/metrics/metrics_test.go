package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeney/humidistat/internal/logic"
)

func TestObserveState(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveState(logic.DeviceState{On: true, Mode: logic.ModeHumidify})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DeviceOn))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mode.WithLabelValues("HUMIDIFY")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Mode.WithLabelValues("DEHUMIDIFY")))

	m.ObserveState(logic.DeviceState{})
	assert.Equal(t, 0.0, testutil.ToFloat64(m.DeviceOn))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mode.WithLabelValues("NONE")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Mode.WithLabelValues("HUMIDIFY")))
}

func TestObserveReadingAndEvents(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveReading(logic.Reading{Temperature: 21.5, Humidity: 48}, 4)
	assert.Equal(t, 21.5, testutil.ToFloat64(m.Temperature))
	assert.Equal(t, 48.0, testutil.ToFloat64(m.Humidity))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.ICA))

	m.ObserveEvents([]logic.Event{{Type: logic.EventSafetyTrip}, {Type: logic.EventSafetyTrip}, {Type: logic.EventDeviceOn}})
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Events.WithLabelValues("SAFETY_TRIP")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Events.WithLabelValues("DEVICE_ON")))
}

func TestInstrumentTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	m := New(reg)
	c := &http.Client{Transport: m.InstrumentTransport(nil)}

	resp, err := c.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCounter.WithLabelValues("418", "get")))

	expected := `
# HELP humidistat_remote_http_requests_total total number of http requests
# TYPE humidistat_remote_http_requests_total counter
humidistat_remote_http_requests_total{code="418",method="get"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "humidistat_remote_http_requests_total"))
}
