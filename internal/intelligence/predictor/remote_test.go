package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/cytodyn/internal/domain/cellline"
	"github.com/turtacn/cytodyn/pkg/errors"
)

func TestRemote_Predict(t *testing.T) {
	var gotFeatures Features
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/predict", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotFeatures))

		json.NewEncoder(w).Encode(Prediction{
			Kind:                 KindOptimalDose,
			OptimalConcentration: 17,
			ExpectedEffect:       0.7,
			Confidence:           0.93,
		})
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, time.Second, nil)
	p, err := r.Predict(context.Background(), Features{
		Kind:     KindOptimalDose,
		CellLine: "HeLa",
		Drug:     cellline.DrugTaxol,
	})
	require.NoError(t, err)

	assert.Equal(t, "HeLa", gotFeatures.CellLine)
	assert.Equal(t, cellline.DrugTaxol, gotFeatures.Drug)
	assert.InDelta(t, 17.0, p.OptimalConcentration, 1e-9)
	assert.InDelta(t, 0.93, p.Confidence, 1e-9)
}

func TestRemote_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, time.Second, nil)
	_, err := r.Predict(context.Background(), Features{Kind: KindGrowth, CellLine: "HeLa"})
	require.Error(t, err)
	assert.True(t, errors.IsPredictorUnavailable(err))
}

func TestRemote_Unreachable(t *testing.T) {
	r := NewRemote("http://127.0.0.1:1", 200*time.Millisecond, nil)
	_, err := r.Predict(context.Background(), Features{Kind: KindGrowth, CellLine: "HeLa"})
	require.Error(t, err)
	assert.True(t, errors.IsPredictorUnavailable(err))
}

func TestRemote_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, time.Second, nil)
	_, err := r.Predict(context.Background(), Features{Kind: KindGrowth, CellLine: "HeLa"})
	require.Error(t, err)
	assert.True(t, errors.IsPredictorUnavailable(err))
}
