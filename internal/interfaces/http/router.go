package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/cytodyn/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/cytodyn/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/cytodyn/internal/interfaces/http/handlers"
	"github.com/turtacn/cytodyn/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// complete HTTP route tree.
type RouterConfig struct {
	HealthHandler     *handlers.HealthHandler
	CellLineHandler   *handlers.CellLineHandler
	SimulationHandler *handlers.SimulationHandler
	PredictHandler    *handlers.PredictHandler

	CORS    *middleware.CORSConfig
	Logging *middleware.LoggingConfig

	Logger           logging.Logger
	Metrics          *prometheus.SimMetrics
	MetricsCollector prometheus.MetricsCollector
}

// NewRouter constructs the route tree: public health and metrics endpoints
// plus the /api/v1 resource groups.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.Logger != nil {
		logCfg := middleware.DefaultLoggingConfig()
		if cfg.Logging != nil {
			logCfg = *cfg.Logging
		}
		r.Use(middleware.RequestLogging(cfg.Logger, cfg.Metrics, logCfg))
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.Health)
	}
	if cfg.MetricsCollector != nil {
		r.Handle("/metrics", cfg.MetricsCollector.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		if h := cfg.CellLineHandler; h != nil {
			api.Get("/cell-lines", h.List)
			api.Get("/cell-lines/{name}", h.Get)
		}
		if h := cfg.SimulationHandler; h != nil {
			api.Post("/simulate", h.Simulate)
		}
		if h := cfg.PredictHandler; h != nil {
			api.Post("/predict/optimal-dose", h.OptimalDose)
			api.Post("/predict/growth", h.Growth)
		}
	})

	return r
}
