package config

import "time"

// ApplyDefaults fills any unset field of cfg with the platform default.
// Called after unmarshalling and before validation so that a minimal (or
// empty) configuration file still yields a runnable service.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		// Simulation responses can take a while to compute and stream.
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}

	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	if len(cfg.CORS.AllowedMethods) == 0 {
		cfg.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.CORS.AllowedHeaders) == 0 {
		cfg.CORS.AllowedHeaders = []string{"Accept", "Content-Type", "X-Request-ID"}
	}
	if cfg.CORS.MaxAge == 0 {
		cfg.CORS.MaxAge = 86400
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	if cfg.Engine.AbsTolerance == 0 {
		cfg.Engine.AbsTolerance = 1e-8
	}
	if cfg.Engine.RelTolerance == 0 {
		cfg.Engine.RelTolerance = 1e-7
	}
	if cfg.Engine.MaxSteps == 0 {
		cfg.Engine.MaxSteps = 200000
	}
	if cfg.Engine.RunTimeout == 0 {
		cfg.Engine.RunTimeout = 30 * time.Second
	}
	if cfg.Engine.MaxInitialCells == 0 {
		cfg.Engine.MaxInitialCells = 10_000_000
	}
	if cfg.Engine.MaxDurationHours == 0 {
		cfg.Engine.MaxDurationHours = 24 * 30
	}

	if cfg.Predictor.Mode == "" {
		cfg.Predictor.Mode = "local"
	}
	if cfg.Predictor.Timeout == 0 {
		cfg.Predictor.Timeout = 5 * time.Second
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "cytodyn"
	}
}

// NewDefaultConfig returns a Config populated entirely from defaults.
// Used by entry points when no configuration file is present.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Metrics.Enabled = true
	ApplyDefaults(cfg)
	return cfg
}
