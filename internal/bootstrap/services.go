package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/snmtc/parts-web/config"
	"github.com/snmtc/parts-web/internal/adapters/memstore"
	"github.com/snmtc/parts-web/internal/adapters/partsapi"
	redisadapter "github.com/snmtc/parts-web/internal/adapters/redis"
	"github.com/snmtc/parts-web/internal/imageproc"
	"github.com/snmtc/parts-web/internal/ports"
	"github.com/snmtc/parts-web/internal/service"
)

// ServiceContainer holds the services shared by the HTTP layer and the
// admin CLI.
type ServiceContainer struct {
	PartsAPI   *partsapi.Client
	Sessions   *service.SessionService
	Auth       *service.AuthService
	Catalog    *service.CatalogService
	Storefront *service.StorefrontService
	Inquiries  *service.InquiryService
	Dashboard  *service.DashboardService
	// Cache holds the layout chrome; nil when UI_CHROME_CACHE=off.
	Cache ports.Cache
}

// ServiceDeps contains the infrastructure NewServices wires together.
type ServiceDeps struct {
	Config *config.AppConfig
	// Redis is required when Config.NeedsRedis reports true.
	Redis redis.UniversalClient
	// Registerer receives the parts API metrics; nil skips registration.
	Registerer prometheus.Registerer
	Logger     *slog.Logger
	// Now overrides the clock for date presets.
	Now func() time.Time
}

// NewServices builds the parts API client and the services on top of it.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api, err := partsapi.New(partsapi.Config{
		BaseURL:       cfg.PartsAPI.BaseURL,
		PublicBaseURL: cfg.PartsAPI.PublicBaseURL,
		Timeout:       cfg.PartsAPI.Timeout,
		Expressions: partsapi.Expressions{
			Items:       cfg.PartsAPI.ItemsExpr,
			CurrentPage: cfg.PartsAPI.CurrentPageExpr,
			TotalPages:  cfg.PartsAPI.TotalPagesExpr,
			Count:       cfg.PartsAPI.CountExpr,
			Message:     cfg.PartsAPI.MessageExpr,
		},
		Metrics: partsapi.NewMetrics(deps.Registerer),
		Logger:  logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("parts api client: %w", err)
	}

	backend, err := BuildSessionBackend(SessionBackendConfig{
		Session:      cfg.Session,
		CookieDomain: cfg.HTTP.CookieDomain,
		CookieSecure: cfg.HTTP.CookieSecure,
		IsDev:        cfg.IsDev,
		Redis:        deps.Redis,
		Logger:       logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}
	sessions := service.NewSessionService(service.SessionServiceOptions{Backend: backend, Logger: logger})

	cache, err := newChromeCache(cfg.UI, deps.Redis)
	if err != nil {
		return ServiceContainer{}, err
	}

	storefront := service.NewStorefrontService(service.StorefrontServiceOptions{
		API:   api,
		Cache: cache,
		Config: service.StorefrontConfig{
			ShopPageSize: cfg.UI.ShopPageSize,
			HomeProducts: cfg.UI.HomeProducts,
			ChromeTTL:    cfg.UI.ChromeTTL,
		},
	})
	catalog := service.NewCatalogService(service.CatalogServiceOptions{
		API:      api,
		PageSize: cfg.UI.AdminPageSize,
		Deps: service.CatalogDeps{
			Images: imageproc.New(imageproc.Options{MaxBytes: cfg.UI.MaxUploadBytes}),
			Chrome: storefront,
			Logger: logger,
		},
	})

	return ServiceContainer{
		PartsAPI:   api,
		Sessions:   sessions,
		Auth:       service.NewAuthService(service.AuthServiceOptions{API: api, Sessions: sessions}),
		Catalog:    catalog,
		Storefront: storefront,
		Inquiries:  service.NewInquiryService(service.InquiryServiceOptions{Catalog: catalog, Now: deps.Now, Logger: logger}),
		Dashboard:  service.NewDashboardService(service.DashboardServiceOptions{API: api, Now: deps.Now}),
		Cache:      cache,
	}, nil
}

//nolint:ireturn // the cache is chosen at runtime.
func newChromeCache(cfg config.UIConfig, client redis.UniversalClient) (ports.Cache, error) {
	switch cfg.ChromeCache {
	case config.ChromeCacheRedis:
		if client == nil {
			return nil, errors.New("redis chrome cache requires a redis client")
		}
		return redisadapter.NewCache(client, ""), nil
	case config.ChromeCacheMemory:
		return memstore.NewCache(), nil
	default:
		return nil, nil
	}
}
