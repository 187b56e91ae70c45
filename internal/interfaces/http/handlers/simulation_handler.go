package handlers

import (
	"net/http"
	"strings"

	appsim "github.com/turtacn/cytodyn/internal/application/simulation"
	"github.com/turtacn/cytodyn/internal/domain/cellline"
	"github.com/turtacn/cytodyn/internal/domain/microenv"
	"github.com/turtacn/cytodyn/internal/domain/pkpd"
	domain "github.com/turtacn/cytodyn/internal/domain/simulation"
	wire "github.com/turtacn/cytodyn/pkg/types/simulation"
)

// SimulationHandler serves POST /simulate.
type SimulationHandler struct {
	svc appsim.Service
}

func NewSimulationHandler(svc appsim.Service) *SimulationHandler {
	return &SimulationHandler{svc: svc}
}

// Simulate decodes the wire request, runs it, and encodes the trajectory.
func (h *SimulationHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req wire.SimulateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	out, err := h.svc.Run(r.Context(), toDomainRequest(req))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWireResponse(out))
}

func toDomainRequest(req wire.SimulateRequest) domain.Request {
	d := domain.Request{
		CellLine:      req.CellLineName,
		InitialCells:  req.ExperimentParams.InitialCells,
		DurationHours: req.ExperimentParams.Duration,
		SampleHours:   req.ExperimentParams.TimeInterval,
		Environment: microenv.Conditions{
			Temperature: req.Environment.Temperature,
			PH:          req.Environment.PH,
			Oxygen:      req.Environment.Oxygen,
			Nutrient:    req.Environment.Nutrient,
		},
	}
	if t := req.Treatment; t != nil && !strings.EqualFold(t.Type, "none") && t.Type != "" {
		d.Treatment = pkpd.TreatmentSpec{
			Drug:          cellline.DrugClass(strings.ToLower(t.Type)),
			Concentration: t.Concentration,
		}
		if s := t.Schedule; s != nil {
			d.Treatment.Schedule = pkpd.Schedule{
				Kind:     pkpd.ScheduleKind(s.Kind),
				Start:    s.Start,
				Interval: s.Interval,
			}
		}
	}
	return d
}

func toWireResponse(out *appsim.RunOutput) wire.SimulateResponse {
	res := out.Result
	resp := wire.SimulateResponse{
		RunID:        out.RunID,
		CellLine:     res.CellLine,
		GrowthFactor: res.GrowthFactor,
		Timepoints:   make([]wire.Timepoint, len(res.Timepoints)),
		Stats: wire.RunStats{
			Steps:       res.Stats.Steps,
			Rejected:    res.Stats.Rejected,
			Segments:    res.Stats.Segments,
			WallClockMS: res.Stats.WallClockMS,
		},
	}
	for i, tp := range res.Timepoints {
		resp.Timepoints[i] = wire.Timepoint{
			Time: tp.Time,
			PhaseCounts: wire.PhaseCounts{
				G1:   tp.Phases.G1,
				S:    tp.Phases.S,
				G2M:  tp.Phases.G2M,
				Dead: tp.Phases.Dead,
			},
			DrugConcentration: tp.Concentration,
			ViableCount:       tp.Live,
			ViabilityFraction: tp.Viability,
		}
	}
	if rec := out.Recommendation; rec != nil {
		resp.Recommendation = &wire.Recommendation{
			OptimalConcentration: rec.OptimalConcentration,
			ExpectedEffect:       rec.ExpectedEffect,
			Confidence:           rec.Confidence,
			Rationale:            rec.Rationale,
		}
	}
	for _, wn := range out.Warnings {
		resp.Warnings = append(resp.Warnings, wire.Warning{Kind: wn.Kind, Message: wn.Message})
	}
	return resp
}
