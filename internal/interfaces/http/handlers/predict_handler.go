package handlers

import (
	"math"
	"net/http"
	"strings"

	"github.com/turtacn/cytodyn/internal/application/prediction"
	"github.com/turtacn/cytodyn/internal/domain/cellline"
	"github.com/turtacn/cytodyn/internal/domain/microenv"
	"github.com/turtacn/cytodyn/internal/intelligence/predictor"
	wire "github.com/turtacn/cytodyn/pkg/types/simulation"
)

// PredictHandler serves the POST /predict/* endpoints.
type PredictHandler struct {
	svc prediction.Service
}

func NewPredictHandler(svc prediction.Service) *PredictHandler {
	return &PredictHandler{svc: svc}
}

// OptimalDose recommends a dose reaching the target inhibition.
func (h *PredictHandler) OptimalDose(w http.ResponseWriter, r *http.Request) {
	var req wire.OptimalDoseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	p, err := h.svc.OptimalDose(r.Context(), predictor.Features{
		CellLine:         req.CellLineName,
		Drug:             cellline.DrugClass(strings.ToLower(req.Drug)),
		TargetInhibition: req.TargetInhibition,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, wire.OptimalDoseResponse{
		CellLine:             req.CellLineName,
		Drug:                 strings.ToLower(req.Drug),
		OptimalConcentration: p.OptimalConcentration,
		ExpectedEffect:       p.ExpectedEffect,
		Confidence:           p.Confidence,
		Rationale:            p.Rationale,
	})
}

// Growth forecasts untreated population growth.
func (h *PredictHandler) Growth(w http.ResponseWriter, r *http.Request) {
	var req wire.GrowthRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	p, err := h.svc.Growth(r.Context(), predictor.Features{
		CellLine:      req.CellLineName,
		InitialCells:  req.InitialCells,
		DurationHours: req.Duration,
		Environment: microenv.Conditions{
			Temperature: req.Environment.Temperature,
			PH:          req.Environment.PH,
			Oxygen:      req.Environment.Oxygen,
			Nutrient:    req.Environment.Nutrient,
		},
	})
	if err != nil {
		writeAppError(w, err)
		return
	}

	doubling := p.EffectiveDoublingHours
	if math.IsInf(doubling, 0) || math.IsNaN(doubling) {
		// Not representable in JSON; zero means "not growing".
		doubling = 0
	}
	writeJSON(w, http.StatusOK, wire.GrowthResponse{
		CellLine:               req.CellLineName,
		PredictedLive:          p.PredictedLive,
		GrowthFactor:           p.GrowthFactor,
		EffectiveDoublingHours: doubling,
		Confidence:             p.Confidence,
	})
}
