// Package config defines all configuration structures for the cytodyn
// service.  No I/O or parsing logic lives here, only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// Version is the service version reported by /health and the CLI.
// Overridden at build time via -ldflags.
var Version = "2.0.0"

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CORSConfig holds cross-origin request policy.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	MaxAge         int      `mapstructure:"max_age"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level            string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string   `mapstructure:"format"` // "json" | "console"
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// CatalogConfig holds cell-line catalog parameters.  The built-in profiles
// are always present; OverlayPath optionally points to a YAML file whose
// entries extend or override them at startup.
type CatalogConfig struct {
	OverlayPath string `mapstructure:"overlay_path"`
}

// EngineConfig holds numerical-integration tunables.
type EngineConfig struct {
	// AbsTolerance and RelTolerance are the embedded Runge-Kutta error
	// tolerances.  The defaults keep per-step relative mass-conservation
	// error below 1e-6.
	AbsTolerance float64 `mapstructure:"abs_tolerance"`
	RelTolerance float64 `mapstructure:"rel_tolerance"`

	// MaxSteps bounds accepted integrator steps per run; exceeding it is
	// reported as numerical instability, never a silent truncation.
	MaxSteps int `mapstructure:"max_steps"`

	// RunTimeout bounds the wall-clock time of a single run.
	RunTimeout time.Duration `mapstructure:"run_timeout"`

	// MaxInitialCells caps the accepted initial population.
	MaxInitialCells int `mapstructure:"max_initial_cells"`

	// MaxDurationHours caps the accepted experiment duration.
	MaxDurationHours float64 `mapstructure:"max_duration_hours"`
}

// PredictorConfig holds response-predictor collaborator parameters.
type PredictorConfig struct {
	// Mode selects the backend: "local" (built-in heuristic model) or
	// "remote" (HTTP JSON service at BaseURL).
	Mode    string        `mapstructure:"mode"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled              bool   `mapstructure:"enabled"`
	Namespace            string `mapstructure:"namespace"`
	EnableProcessMetrics bool   `mapstructure:"enable_process_metrics"`
	EnableGoMetrics      bool   `mapstructure:"enable_go_metrics"`
}

// Config is the root configuration structure for the service.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Log       LogConfig       `mapstructure:"log"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Predictor PredictorConfig `mapstructure:"predictor"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the service.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if c.Engine.AbsTolerance <= 0 {
		return fmt.Errorf("config: engine.abs_tolerance must be > 0, got %g", c.Engine.AbsTolerance)
	}
	if c.Engine.RelTolerance <= 0 {
		return fmt.Errorf("config: engine.rel_tolerance must be > 0, got %g", c.Engine.RelTolerance)
	}
	if c.Engine.MaxSteps < 1 {
		return fmt.Errorf("config: engine.max_steps must be ≥ 1, got %d", c.Engine.MaxSteps)
	}
	if c.Engine.RunTimeout <= 0 {
		return fmt.Errorf("config: engine.run_timeout must be > 0, got %s", c.Engine.RunTimeout)
	}
	if c.Engine.MaxInitialCells < 1 {
		return fmt.Errorf("config: engine.max_initial_cells must be ≥ 1, got %d", c.Engine.MaxInitialCells)
	}
	if c.Engine.MaxDurationHours <= 0 {
		return fmt.Errorf("config: engine.max_duration_hours must be > 0, got %g", c.Engine.MaxDurationHours)
	}

	switch c.Predictor.Mode {
	case "local":
	case "remote":
		if c.Predictor.BaseURL == "" {
			return fmt.Errorf("config: predictor.base_url is required when predictor.mode is remote")
		}
	default:
		return fmt.Errorf("config: predictor.mode %q is invalid; expected local|remote", c.Predictor.Mode)
	}
	if c.Predictor.Timeout <= 0 {
		return fmt.Errorf("config: predictor.timeout must be > 0, got %s", c.Predictor.Timeout)
	}

	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("config: metrics.namespace is required when metrics are enabled")
	}

	return nil
}
