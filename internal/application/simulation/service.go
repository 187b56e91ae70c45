// Package simulation is the application service behind the /simulate
// endpoint: it validates and executes runs, records metrics, and attaches
// the advisory dosing recommendation when a treatment is present.
package simulation

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/turtacn/cytodyn/internal/domain/simulation"
	"github.com/turtacn/cytodyn/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/cytodyn/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/cytodyn/internal/intelligence/predictor"
	"github.com/turtacn/cytodyn/pkg/errors"
)

// Warning is a non-fatal degradation attached to an otherwise successful run.
type Warning struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// RunOutput is the service-level result of one simulation run.
type RunOutput struct {
	RunID          string                `json:"runId"`
	Result         *domain.Result        `json:"result"`
	Recommendation *predictor.Prediction `json:"recommendation,omitempty"`
	Warnings       []Warning             `json:"warnings,omitempty"`
}

// Service executes simulation requests.  Implementations must be safe for
// concurrent use.
type Service interface {
	Run(ctx context.Context, req domain.Request) (*RunOutput, error)
}

type service struct {
	engine  *domain.Engine
	pred    predictor.Predictor
	metrics *prometheus.SimMetrics
	log     logging.Logger
}

// NewService wires the simulation service.  pred may be nil to disable
// recommendations; metrics and log may be nil for tests.
func NewService(engine *domain.Engine, pred predictor.Predictor, metrics *prometheus.SimMetrics, log logging.Logger) Service {
	if metrics == nil {
		metrics = prometheus.NewSimMetrics(prometheus.NewNopCollector())
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &service{engine: engine, pred: pred, metrics: metrics, log: log.Named("simulation")}
}

func (s *service) Run(ctx context.Context, req domain.Request) (*RunOutput, error) {
	runID := uuid.NewString()
	log := s.log.With(logging.String("run_id", runID), logging.String("cell_line", req.CellLine))

	s.metrics.ActiveSimulations.WithLabelValues().Inc()
	defer s.metrics.ActiveSimulations.WithLabelValues().Dec()

	started := time.Now()
	result, err := s.engine.Run(ctx, req)
	if err != nil {
		s.metrics.SimulationsTotal.WithLabelValues(req.CellLine, "error").Inc()
		log.Warn("simulation failed", logging.Err(err))
		return nil, err
	}

	s.metrics.SimulationsTotal.WithLabelValues(result.CellLine, "ok").Inc()
	s.metrics.SimulationDuration.WithLabelValues(result.CellLine).Observe(time.Since(started).Seconds())
	s.metrics.IntegratorSteps.WithLabelValues(result.CellLine).Observe(float64(result.Stats.Steps))
	s.metrics.IntegratorRejections.WithLabelValues(result.CellLine).Add(float64(result.Stats.Rejected))

	out := &RunOutput{RunID: runID, Result: result}
	if s.pred != nil && req.Treatment.Active() {
		out.Recommendation, out.Warnings = s.recommend(ctx, req, log)
	}

	log.Info("simulation run complete",
		logging.Int("timepoints", len(result.Timepoints)),
		logging.Float64("final_live", result.FinalLive()),
		logging.Duration("elapsed", time.Since(started)))
	return out, nil
}

// recommend asks the predictor for the optimal dose matching the run's
// treatment.  A predictor failure degrades to a warning, never an error.
func (s *service) recommend(ctx context.Context, req domain.Request, log logging.Logger) (*predictor.Prediction, []Warning) {
	started := time.Now()
	p, err := s.pred.Predict(ctx, predictor.Features{
		Kind:     predictor.KindOptimalDose,
		CellLine: req.CellLine,
		Drug:     req.Treatment.Drug,
	})
	s.metrics.PredictorLatency.WithLabelValues("recommendation").Observe(time.Since(started).Seconds())
	if err != nil {
		s.metrics.PredictorRequestsTotal.WithLabelValues("recommendation", "error").Inc()
		log.Warn("dose recommendation unavailable", logging.Err(err))
		return nil, []Warning{{
			Kind:    errors.ErrCodePredictorUnavailable.Kind(),
			Message: "dose recommendation unavailable: " + err.Error(),
		}}
	}
	s.metrics.PredictorRequestsTotal.WithLabelValues("recommendation", "ok").Inc()
	return p, nil
}
