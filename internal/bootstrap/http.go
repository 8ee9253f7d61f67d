package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/snmtc/parts-web/config"
	"github.com/snmtc/parts-web/internal/adapters/clientid"
	"github.com/snmtc/parts-web/internal/debounce"
	httpx "github.com/snmtc/parts-web/internal/http"
	"github.com/snmtc/parts-web/internal/router"
)

// NewRegistry returns a Prometheus registry carrying the Go runtime and
// process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	// Redis is pinged by /readyz when set.
	Redis    redis.UniversalClient
	Registry *prometheus.Registry
	Logger   *slog.Logger
	// Errors receives the listener error, if any.
	Errors chan<- error
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil {
		return nil, errors.New("http server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler, err := buildHTTPHandler(httpHandlerConfig{
		Logger:   logger,
		Services: routerServices(appCfg, cfg, logger),
		HTTP:     appCfg.HTTP,
	})
	if err != nil {
		return nil, err
	}

	return startServer(logger, handler, appCfg.HTTP.Addr, cfg.Errors), nil
}

func routerServices(appCfg *config.AppConfig, cfg *HTTPServerConfig, logger *slog.Logger) httpx.RouterServices {
	svc := cfg.Services
	services := httpx.RouterServices{
		Navigator:  router.NewNavigator(router.DefaultTable()),
		Auth:       svc.Auth,
		Catalog:    svc.Catalog,
		Storefront: svc.Storefront,
		Inquiries:  svc.Inquiries,
		Dashboard:  svc.Dashboard,
		Searches:   debounce.New(appCfg.UI.SearchDebounce),
		ClientIDs:  clientIDIssuer(appCfg),
		Ready:      map[string]httpx.HealthChecker{},
		CSRF: httpx.CSRFConfig{
			CookieDomain: appCfg.HTTP.CookieDomain,
			SecureCookie: appCfg.HTTP.CookieSecure,
		},
		MediaBaseURL:   appCfg.PartsAPI.MediaBaseURL,
		MaxUploadBytes: appCfg.UI.MaxUploadBytes,
		IsDev:          appCfg.IsDev,
		Logger:         logger,
	}
	// A nil *SessionService must not become a non-nil interface.
	if svc.Sessions != nil {
		services.Sessions = svc.Sessions
	}
	if svc.Cache != nil {
		services.Ready["chrome_cache"] = svc.Cache
	}
	if cfg.Redis != nil {
		services.Ready["redis"] = redisHealth{client: cfg.Redis}
	}
	if appCfg.Observability.MetricsEnabled && cfg.Registry != nil {
		services.Metrics = httpx.NewMetrics(cfg.Registry)
		services.MetricsHandler = promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{Registry: cfg.Registry})
		services.MetricsPath = appCfg.Observability.MetricsPath
	}
	return services
}

// clientIDIssuer matches the client id cookie the server-side session
// backends read, so a browser has one id whatever the backend.
func clientIDIssuer(cfg *config.AppConfig) clientid.Issuer {
	return clientid.Issuer{
		Name:   cfg.Session.ClientCookieName,
		Domain: cfg.HTTP.CookieDomain,
		Secure: cfg.HTTP.CookieSecure,
	}
}

type redisHealth struct {
	client redis.UniversalClient
}

func (h redisHealth) Health(ctx context.Context) error {
	return h.client.Ping(ctx).Err()
}

type httpHandlerConfig struct {
	Logger   *slog.Logger
	Services httpx.RouterServices
	HTTP     config.HTTPConfig
}

func buildHTTPHandler(cfg httpHandlerConfig) (http.Handler, error) {
	handler, err := httpx.NewRouter(cfg.Services)
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	// Order: Recover -> Logging -> Compression -> Router
	h := handler
	if cfg.HTTP.CompressionEnabled {
		cfg.Logger.Info("HTTP compression enabled", "level", cfg.HTTP.CompressionLevel)
		h = httpx.Compression(httpx.CompressionConfig{
			Level:   cfg.HTTP.CompressionLevel,
			MinSize: 512,
			Logger:  cfg.Logger,
		})(h)
	}

	h = httpx.Logging(cfg.Logger)(h)
	h = httpx.Recover(cfg.Logger)(h)

	return h, nil
}

func startServer(logger *slog.Logger, handler http.Handler, addr string, errCh chan<- error) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			if errCh != nil {
				errCh <- fmt.Errorf("http server: %w", err)
			}
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Timeout time.Duration
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	parent := cfg.Context
	if parent == nil {
		parent = context.Background()
	}
	shutdownCtx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}
	return nil
}
