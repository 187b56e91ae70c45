// Command apiserver runs the cytodyn HTTP API without the CLI wrapper,
// configured by flags and environment only.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/cytodyn/internal/config"
	"github.com/turtacn/cytodyn/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/cytodyn/internal/interfaces/http"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	port := flag.Int("port", 0, "listen port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(configPath string, port int) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	log, err := logging.NewLogger(logging.Config{
		Level:            cfg.Log.Level,
		Format:           cfg.Log.Format,
		OutputPaths:      cfg.Log.OutputPaths,
		ErrorOutputPaths: cfg.Log.ErrorOutputPaths,
	})
	if err != nil {
		return err
	}
	if configPath != "" {
		config.Watch(configPath, func(next *config.Config) {
			if ls, ok := log.(logging.LevelSetter); ok {
				ls.SetLevel(next.Log.Level)
				log.Info("log level reloaded", logging.String("level", next.Log.Level))
			}
		})
	}

	handler, err := httpserver.BuildHandler(cfg, log)
	if err != nil {
		return err
	}
	srv := httpserver.NewServer(cfg.Server, handler, log)

	log.Info("starting cytodyn API server",
		logging.String("version", config.Version),
		logging.Int("port", cfg.Server.Port),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info("shutting down", logging.String("signal", sig.String()))
	}
	return srv.Stop(context.Background(), cfg.Server.ShutdownTimeout)
}
