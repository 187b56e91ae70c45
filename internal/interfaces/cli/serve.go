package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/cytodyn/internal/config"
	"github.com/turtacn/cytodyn/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/cytodyn/internal/interfaces/http"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the simulation API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			if opts.configPath != "" {
				watchLogLevel(opts.configPath, log)
			}
			return runServer(cfg, log)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	return cmd
}

// watchLogLevel hot-reloads the log level when the config file changes on
// disk.  Other settings require a restart.
func watchLogLevel(configPath string, log logging.Logger) {
	config.Watch(configPath, func(next *config.Config) {
		if ls, ok := log.(logging.LevelSetter); ok {
			ls.SetLevel(next.Log.Level)
			log.Info("log level reloaded", logging.String("level", next.Log.Level))
		}
	})
}

func runServer(cfg *config.Config, log logging.Logger) error {
	handler, err := httpserver.BuildHandler(cfg, log)
	if err != nil {
		return err
	}
	srv := httpserver.NewServer(cfg.Server, handler, log)

	log.Info("starting cytodyn API server",
		logging.String("version", config.Version),
		logging.Int("port", cfg.Server.Port))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("received signal", logging.String("signal", sig.String()))
	}
	return srv.Stop(context.Background(), cfg.Server.ShutdownTimeout)
}
