package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/cytodyn/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "cytodyn"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func TestNewMetricsCollector_RequiresNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestRegisterCounter_Idempotent(t *testing.T) {
	c := newTestCollector(t)

	first := c.RegisterCounter("simulations_total", "runs", "cell_line", "status")
	second := c.RegisterCounter("simulations_total", "runs", "cell_line", "status")

	first.WithLabelValues("HeLa", "completed").Inc()
	second.WithLabelValues("HeLa", "completed").Add(2)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `cytodyn_simulations_total{cell_line="HeLa",status="completed"} 3`)
}

func TestRegisterHistogram_ObservesIntoBuckets(t *testing.T) {
	c := newTestCollector(t)

	h := c.RegisterHistogram("simulation_duration_seconds", "dur", DefaultSimDurationBuckets, "cell_line")
	h.WithLabelValues("A549").Observe(0.2)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "cytodyn_simulation_duration_seconds_bucket")
}

func TestNewSimMetrics_RegistersFullSet(t *testing.T) {
	c := newTestCollector(t)
	m := NewSimMetrics(c)

	m.SimulationsTotal.WithLabelValues("HeLa", "completed").Inc()
	m.ActiveSimulations.WithLabelValues().Set(1)
	m.PredictorRequestsTotal.WithLabelValues("optimal-dose", "ok").Inc()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		"cytodyn_simulations_total",
		"cytodyn_active_simulations",
		"cytodyn_predictor_requests_total",
	} {
		assert.True(t, strings.Contains(body, want), "missing metric %s", want)
	}
}

func TestNopCollector(t *testing.T) {
	c := NewNopCollector()
	c.RegisterCounter("x", "y").WithLabelValues().Inc()
	c.RegisterGauge("x", "y").WithLabelValues().Set(1)
	c.RegisterHistogram("x", "y", nil).WithLabelValues().Observe(1)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
