package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/snmtc/parts-web/config"
	"github.com/snmtc/parts-web/internal/adapters/clientid"
	"github.com/snmtc/parts-web/internal/adapters/cookiestore"
	"github.com/snmtc/parts-web/internal/adapters/memstore"
	redisadapter "github.com/snmtc/parts-web/internal/adapters/redis"
	"github.com/snmtc/parts-web/internal/ports"
)

// SessionBackendConfig contains the inputs for BuildSessionBackend.
type SessionBackendConfig struct {
	Session      config.SessionConfig
	CookieDomain string
	CookieSecure bool
	IsDev        bool
	Redis        redis.UniversalClient
	Logger       *slog.Logger
}

// BuildSessionBackend selects the session store named by SESSION_BACKEND.
//
//nolint:ireturn // the backend is chosen at runtime.
func BuildSessionBackend(cfg SessionBackendConfig) (ports.SessionBackend, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ids := clientid.Issuer{
		Name:   cfg.Session.ClientCookieName,
		Domain: cfg.CookieDomain,
		Secure: cfg.CookieSecure,
	}

	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		if cfg.Redis == nil {
			return nil, errors.New("redis session backend requires a redis client")
		}
		logger.Info("session backend selected", "backend", "redis", "prefix", cfg.Session.RedisPrefix)
		return redisadapter.NewSessionStore(cfg.Redis, redisadapter.SessionStoreOptions{
			Prefix: cfg.Session.RedisPrefix,
			TTL:    cfg.Session.TTL,
			Issuer: ids,
		}), nil

	case config.SessionBackendMemory:
		if !cfg.IsDev {
			logger.Warn("memory session backend in use outside development; sign-ins are lost on restart")
		}
		logger.Info("session backend selected", "backend", "memory")
		return memstore.NewSessionStore(ids), nil

	default:
		hash, block, err := cfg.Session.Keys()
		if err != nil {
			return nil, err
		}
		if hash == nil {
			if !cfg.IsDev {
				return nil, errors.New("cookie session backend requires SESSION_HASH_KEY")
			}
			logger.Warn("generating ephemeral session keys; sign-ins are lost on restart")
			hash, block = cookiestore.GenerateKeys()
		}
		store, err := cookiestore.New(cookiestore.Options{
			HashKey:  hash,
			BlockKey: block,
			Name:     cfg.Session.CookieName,
			Domain:   cfg.CookieDomain,
			Secure:   cfg.CookieSecure,
			MaxAge:   int(cfg.Session.TTL.Seconds()),
		})
		if err != nil {
			return nil, fmt.Errorf("cookie session store: %w", err)
		}
		logger.Info("session backend selected", "backend", "cookie")
		return store, nil
	}
}
