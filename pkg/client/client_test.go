package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wire "github.com/turtacn/cytodyn/pkg/types/simulation"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient("http://api.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "http://api.example.com", c.baseURL)
	assert.Equal(t, 3, c.retryMax)
	assert.Contains(t, c.userAgent, "cytodyn-go-sdk/")
}

func TestNewClient_Invalid(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)

	_, err = NewClient("ftp://api.example.com")
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/health", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		json.NewEncoder(w).Encode(wire.HealthResponse{
			Status: "ok", Version: "2.0.0", CellLines: 5,
		})
	})

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, 5, h.CellLines)
}

func TestSimulate_RoundTrip(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/simulate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req wire.SimulateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "HeLa", req.CellLineName)

		json.NewEncoder(w).Encode(wire.SimulateResponse{
			RunID:    "run-1",
			CellLine: req.CellLineName,
			Timepoints: []wire.Timepoint{
				{Time: 0, ViableCount: 500},
				{Time: 1, ViableCount: 512},
			},
		})
	})

	resp, err := c.Simulate(context.Background(), &wire.SimulateRequest{
		CellLineName: "HeLa",
		Environment:  wire.Environment{Temperature: 37, PH: 7.4},
		ExperimentParams: wire.ExperimentParams{
			InitialCells: 500, Duration: 1, TimeInterval: 1,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "run-1", resp.RunID)
	assert.Len(t, resp.Timepoints, 2)
}

func TestAPIError_Decoding(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(wire.ErrorResponse{Error: wire.ErrorBody{
			Kind: "UnknownCellLine", Code: "SIM_001", Message: `unknown cell line "NIH-3T3"`,
		}})
	})

	_, err := c.GetCellLine(context.Background(), "NIH-3T3")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "SIM_001", apiErr.Code)
	assert.Equal(t, "UnknownCellLine", apiErr.Kind)
	assert.Contains(t, apiErr.Error(), "SIM_001")
}

func TestRetry_ServerErrorsThenSuccess(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(wire.CellLineListResponse{
			CellLines: []wire.CellLineSummary{{Name: "HeLa"}},
		})
	}, WithRetryWait(time.Millisecond, 2*time.Millisecond))

	lines, err := c.ListCellLines(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "HeLa", lines[0].Name)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRetry_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(wire.ErrorResponse{Error: wire.ErrorBody{
			Kind: "InvalidParameters", Code: "SIM_002", Message: "initialCells must be positive",
		}})
	}, WithRetryWait(time.Millisecond, 2*time.Millisecond))

	_, err := c.Simulate(context.Background(), &wire.SimulateRequest{})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.True(t, apiErr.IsInvalid())
}

func TestRetry_Exhausted(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, WithRetryMax(2), WithRetryWait(time.Millisecond, 2*time.Millisecond))

	_, err := c.Health(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.True(t, apiErr.IsServerError())
}

func TestContextCancellation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, WithRetryWait(time.Hour, time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Health(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOptimalDose(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/predict/optimal-dose", r.URL.Path)
		json.NewEncoder(w).Encode(wire.OptimalDoseResponse{
			CellLine: "HeLa", Drug: "taxol",
			OptimalConcentration: 17.0, ExpectedEffect: 0.7, Confidence: 0.7,
		})
	})

	resp, err := c.OptimalDose(context.Background(), &wire.OptimalDoseRequest{
		CellLineName: "HeLa", Drug: "taxol",
	})
	require.NoError(t, err)
	assert.InDelta(t, 17.0, resp.OptimalConcentration, 1e-9)
}

func TestGrowth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/predict/growth", r.URL.Path)
		json.NewEncoder(w).Encode(wire.GrowthResponse{
			CellLine: "A549", PredictedLive: 8000, GrowthFactor: 1, Confidence: 0.7,
		})
	})

	resp, err := c.Growth(context.Background(), &wire.GrowthRequest{
		CellLineName: "A549", InitialCells: 2000, Duration: 44,
		Environment: wire.Environment{Temperature: 37, PH: 7.4},
	})
	require.NoError(t, err)
	assert.InDelta(t, 8000, resp.PredictedLive, 1e-9)
}
