package http

import (
	"net/http"

	"github.com/turtacn/cytodyn/internal/application/prediction"
	appsim "github.com/turtacn/cytodyn/internal/application/simulation"
	"github.com/turtacn/cytodyn/internal/config"
	"github.com/turtacn/cytodyn/internal/domain/cellline"
	domain "github.com/turtacn/cytodyn/internal/domain/simulation"
	"github.com/turtacn/cytodyn/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/cytodyn/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/cytodyn/internal/interfaces/http/handlers"
	"github.com/turtacn/cytodyn/internal/interfaces/http/middleware"
	"github.com/turtacn/cytodyn/internal/intelligence/predictor"
)

// BuildHandler wires the full service graph from the resolved configuration
// and returns the root HTTP handler.
func BuildHandler(cfg *config.Config, log logging.Logger) (http.Handler, error) {
	catalog, err := cellline.NewCatalogWithOverlay(cfg.Catalog.OverlayPath)
	if err != nil {
		return nil, err
	}

	collector := prometheus.NewNopCollector()
	if cfg.Metrics.Enabled {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: cfg.Metrics.EnableProcessMetrics,
			EnableGoMetrics:      cfg.Metrics.EnableGoMetrics,
		}, log)
		if err != nil {
			return nil, err
		}
	}
	metrics := prometheus.NewSimMetrics(collector)

	engine := domain.NewEngine(catalog, domain.Options{
		AbsTolerance:     cfg.Engine.AbsTolerance,
		RelTolerance:     cfg.Engine.RelTolerance,
		MaxSteps:         cfg.Engine.MaxSteps,
		MaxInitialCells:  float64(cfg.Engine.MaxInitialCells),
		MaxDurationHours: cfg.Engine.MaxDurationHours,
		RunTimeout:       cfg.Engine.RunTimeout,
	}, log)

	var pred predictor.Predictor
	if cfg.Predictor.Mode == "remote" {
		pred = predictor.NewRemote(cfg.Predictor.BaseURL, cfg.Predictor.Timeout, log)
	} else {
		pred = predictor.NewLocal(catalog)
	}

	cors := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		cors.AllowedOrigins = cfg.CORS.AllowedOrigins
	}
	if len(cfg.CORS.AllowedMethods) > 0 {
		cors.AllowedMethods = cfg.CORS.AllowedMethods
	}
	if len(cfg.CORS.AllowedHeaders) > 0 {
		cors.AllowedHeaders = cfg.CORS.AllowedHeaders
	}
	if cfg.CORS.MaxAge > 0 {
		cors.MaxAge = cfg.CORS.MaxAge
	}

	return NewRouter(RouterConfig{
		HealthHandler:     handlers.NewHealthHandler(config.Version, catalog),
		CellLineHandler:   handlers.NewCellLineHandler(catalog),
		SimulationHandler: handlers.NewSimulationHandler(appsim.NewService(engine, pred, metrics, log)),
		PredictHandler:    handlers.NewPredictHandler(prediction.NewService(pred, metrics, log)),
		CORS:              &cors,
		Logger:            log,
		Metrics:           metrics,
		MetricsCollector:  collector,
	}), nil
}
