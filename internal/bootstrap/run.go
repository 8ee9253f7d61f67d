package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/snmtc/parts-web/config"
)

// RunConfig contains the dependencies for RunWithShutdown.
type RunConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Redis    redis.UniversalClient
	Registry *prometheus.Registry
	Logger   *slog.Logger
	// Signals overrides the shutdown signal source; nil listens for
	// SIGINT and SIGTERM.
	Signals <-chan os.Signal
}

// RunWithShutdown serves HTTP until a shutdown signal arrives or the listener
// fails, then drains in-flight requests.
func RunWithShutdown(cfg *RunConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("run config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	errCh := make(chan error, 1)
	server, err := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Redis:    cfg.Redis,
		Registry: cfg.Registry,
		Logger:   logger,
		Errors:   errCh,
	})
	if err != nil {
		return err
	}

	quit := cfg.Signals
	if quit == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(ch)
		quit = ch
	}

	return waitForShutdown(quit, errCh, server, cfg.Config.HTTP, logger)
}

func waitForShutdown(quit <-chan os.Signal, errCh <-chan error, server *http.Server, httpCfg config.HTTPConfig, logger *slog.Logger) error {
	stop := func() error {
		return ShutdownHTTPServer(ShutdownConfig{
			Context: context.Background(),
			Server:  server,
			Timeout: httpCfg.ShutdownTimeout,
			Logger:  logger,
		})
	}

	select {
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
		return stop()
	case err := <-errCh:
		logger.Error("service error", "error", err)
		if stopErr := stop(); stopErr != nil {
			logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}
