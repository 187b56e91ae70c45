package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/cytodyn/internal/application/prediction"
	appsim "github.com/turtacn/cytodyn/internal/application/simulation"
	"github.com/turtacn/cytodyn/internal/domain/cellline"
	domain "github.com/turtacn/cytodyn/internal/domain/simulation"
	"github.com/turtacn/cytodyn/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/cytodyn/internal/interfaces/http/handlers"
	"github.com/turtacn/cytodyn/internal/intelligence/predictor"
	wire "github.com/turtacn/cytodyn/pkg/types/simulation"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	catalog := cellline.NewCatalog()
	engine := domain.NewEngine(catalog, domain.Options{}, nil)
	pred := predictor.NewLocal(catalog)
	collector := prometheus.NewNopCollector()
	metrics := prometheus.NewSimMetrics(collector)

	return NewRouter(RouterConfig{
		HealthHandler:     handlers.NewHealthHandler("test", catalog),
		CellLineHandler:   handlers.NewCellLineHandler(catalog),
		SimulationHandler: handlers.NewSimulationHandler(appsim.NewService(engine, pred, metrics, nil)),
		PredictHandler:    handlers.NewPredictHandler(prediction.NewService(pred, metrics, nil)),
		Metrics:           metrics,
		MetricsCollector:  collector,
	})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func TestRouter_Health(t *testing.T) {
	rec := doJSON(t, newTestRouter(t), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[handlers.HealthResponse](t, rec)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "test", body.Version)
	assert.Equal(t, 5, body.CellLines)
	assert.NotEmpty(t, body.Features)
	assert.Contains(t, body.Features, "Cell cycle modeling")
	assert.Contains(t, body.Features, "PK/PD simulation")
	assert.Contains(t, body.Features, "ML prediction")
}

func TestRouter_ListCellLines(t *testing.T) {
	rec := doJSON(t, newTestRouter(t), http.MethodGet, "/api/v1/cell-lines", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[handlers.ListResponse](t, rec)
	require.Len(t, body.CellLines, 5)
	assert.Equal(t, "HeLa", body.CellLines[0].Name)
}

func TestRouter_GetCellLine(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/v1/cell-lines/hela", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decodeBody[cellline.Parameters](t, rec)
	assert.Equal(t, "HeLa", p.Name)
	assert.InDelta(t, 24.0, p.DoublingTime, 1e-9)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/cell-lines/NIH-3T3", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	errBody := decodeBody[wire.ErrorResponse](t, rec)
	assert.Equal(t, "UnknownCellLine", errBody.Error.Kind)
	assert.Equal(t, "SIM_001", errBody.Error.Code)
}

func TestRouter_SimulateReferenceScenario(t *testing.T) {
	req := wire.SimulateRequest{
		CellLineName: "HeLa",
		Environment:  wire.Environment{Temperature: 37, PH: 7.4},
		Treatment:    &wire.Treatment{Type: "none"},
		ExperimentParams: wire.ExperimentParams{
			InitialCells: 500,
			Duration:     72,
			TimeInterval: 1,
		},
	}
	rec := doJSON(t, newTestRouter(t), http.MethodPost, "/api/v1/simulate", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody[wire.SimulateResponse](t, rec)
	assert.NotEmpty(t, body.RunID)
	assert.Equal(t, "HeLa", body.CellLine)
	require.Len(t, body.Timepoints, 73)

	first := body.Timepoints[0]
	assert.Zero(t, first.Time)
	assert.InDelta(t, 500, first.ViableCount, 1e-9)
	assert.InDelta(t, 500, first.PhaseCounts.G1, 1e-9)
	assert.Zero(t, first.DrugConcentration)

	last := body.Timepoints[72]
	assert.InDelta(t, 72, last.Time, 1e-9)
	assert.Greater(t, last.ViableCount, 500.0)
	assert.Nil(t, body.Recommendation)
}

func TestRouter_SimulateTreatedAttachesRecommendation(t *testing.T) {
	req := wire.SimulateRequest{
		CellLineName: "MCF-7",
		Environment:  wire.Environment{Temperature: 37, PH: 7.4},
		Treatment: &wire.Treatment{
			Type:          "taxol",
			Concentration: 10,
			Schedule:      &wire.Schedule{Kind: "bolus"},
		},
		ExperimentParams: wire.ExperimentParams{InitialCells: 1000, Duration: 48},
	}
	rec := doJSON(t, newTestRouter(t), http.MethodPost, "/api/v1/simulate", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody[wire.SimulateResponse](t, rec)
	assert.InDelta(t, 10, body.Timepoints[0].DrugConcentration, 1e-9)
	require.NotNil(t, body.Recommendation)
	assert.Greater(t, body.Recommendation.OptimalConcentration, 0.0)
	assert.Empty(t, body.Warnings)
}

func TestRouter_SimulateErrors(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name       string
		mutate     func(*wire.SimulateRequest)
		wantStatus int
		wantKind   string
	}{
		{
			"unknown cell line",
			func(q *wire.SimulateRequest) { q.CellLineName = "DoesNotExist" },
			http.StatusNotFound, "UnknownCellLine",
		},
		{
			"invalid initial cells",
			func(q *wire.SimulateRequest) { q.ExperimentParams.InitialCells = -5 },
			http.StatusBadRequest, "InvalidParameters",
		},
		{
			"invalid environment",
			func(q *wire.SimulateRequest) { q.Environment.Temperature = 80 },
			http.StatusBadRequest, "InvalidParameters",
		},
		{
			"unknown drug",
			func(q *wire.SimulateRequest) { q.Treatment = &wire.Treatment{Type: "vinblastine", Concentration: 1} },
			http.StatusBadRequest, "InvalidParameters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := wire.SimulateRequest{
				CellLineName:     "HeLa",
				Environment:      wire.Environment{Temperature: 37, PH: 7.4},
				ExperimentParams: wire.ExperimentParams{InitialCells: 100, Duration: 24},
			}
			tt.mutate(&req)
			rec := doJSON(t, r, http.MethodPost, "/api/v1/simulate", req)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			body := decodeBody[wire.ErrorResponse](t, rec)
			assert.Equal(t, tt.wantKind, body.Error.Kind)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestRouter_SimulateMalformedBody(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulate", bytes.NewBufferString(`{"cellLineName": `))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/simulate", bytes.NewBufferString(`{"cellLine":"HeLa"}`))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	// Unknown fields are rejected, not ignored.
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_PredictOptimalDose(t *testing.T) {
	rec := doJSON(t, newTestRouter(t), http.MethodPost, "/api/v1/predict/optimal-dose", wire.OptimalDoseRequest{
		CellLineName: "HeLa",
		Drug:         "taxol",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody[wire.OptimalDoseResponse](t, rec)
	assert.InDelta(t, 17.0, body.OptimalConcentration, 0.2)
	assert.InDelta(t, 0.7, body.ExpectedEffect, 1e-9)
	assert.NotEmpty(t, body.Rationale)
}

func TestRouter_PredictGrowth(t *testing.T) {
	rec := doJSON(t, newTestRouter(t), http.MethodPost, "/api/v1/predict/growth", wire.GrowthRequest{
		CellLineName: "A549",
		InitialCells: 2000,
		Duration:     44, // two nominal doublings
		Environment:  wire.Environment{Temperature: 37, PH: 7.4},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody[wire.GrowthResponse](t, rec)
	assert.InDelta(t, 8000, body.PredictedLive, 8000*0.01)
	assert.InDelta(t, 1.0, body.GrowthFactor, 1e-9)
	assert.InDelta(t, 22.0, body.EffectiveDoublingHours, 1e-9)
}

func TestRouter_MetricsExposition(t *testing.T) {
	rec := doJSON(t, newTestRouter(t), http.MethodGet, "/metrics", nil)
	// The nop collector serves an empty exposition, still 200.
	assert.Equal(t, http.StatusOK, rec.Code)
}
