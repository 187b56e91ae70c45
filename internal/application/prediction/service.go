// Package prediction is the application service behind the /predict
// endpoints.  Unlike the advisory recommendation attached to simulation
// runs, a predictor failure here is fatal and surfaces to the caller.
package prediction

import (
	"context"
	"time"

	"github.com/turtacn/cytodyn/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/cytodyn/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/cytodyn/internal/intelligence/predictor"
)

// Service answers the dedicated prediction endpoints.
type Service interface {
	OptimalDose(ctx context.Context, f predictor.Features) (*predictor.Prediction, error)
	Growth(ctx context.Context, f predictor.Features) (*predictor.Prediction, error)
}

type service struct {
	pred    predictor.Predictor
	metrics *prometheus.SimMetrics
	log     logging.Logger
}

// NewService wires the prediction service; metrics and log may be nil.
func NewService(pred predictor.Predictor, metrics *prometheus.SimMetrics, log logging.Logger) Service {
	if metrics == nil {
		metrics = prometheus.NewSimMetrics(prometheus.NewNopCollector())
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &service{pred: pred, metrics: metrics, log: log.Named("prediction")}
}

func (s *service) OptimalDose(ctx context.Context, f predictor.Features) (*predictor.Prediction, error) {
	f.Kind = predictor.KindOptimalDose
	return s.predict(ctx, "optimal_dose", f)
}

func (s *service) Growth(ctx context.Context, f predictor.Features) (*predictor.Prediction, error) {
	f.Kind = predictor.KindGrowth
	return s.predict(ctx, "growth", f)
}

func (s *service) predict(ctx context.Context, endpoint string, f predictor.Features) (*predictor.Prediction, error) {
	started := time.Now()
	p, err := s.pred.Predict(ctx, f)
	s.metrics.PredictorLatency.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
	if err != nil {
		s.metrics.PredictorRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		s.log.Warn("prediction failed",
			logging.String("endpoint", endpoint),
			logging.String("cell_line", f.CellLine),
			logging.Err(err))
		return nil, err
	}
	s.metrics.PredictorRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	return p, nil
}
