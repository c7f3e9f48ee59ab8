package app

import (
	"context"
	"database/sql"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"merchandising-engine/internal/analytics"
	"merchandising-engine/internal/config"
	"merchandising-engine/internal/platform/memcache"
	"merchandising-engine/internal/platform/postgres"
	"merchandising-engine/internal/platform/redis"
	"merchandising-engine/internal/promotion"
)

// App holds the wired services shared by the HTTP server and the CLI.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Store      *postgres.Store
	Promotions *promotion.Service
	Analytics  *analytics.Service

	db  *sql.DB
	rdb *goredis.Client
}

// New connects to PostgreSQL and the configured cache and builds the services.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	logger.Info("PostgreSQL connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	cache, rdb, err := NewCache(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("Cache ready", zap.String("driver", cfg.Cache.Driver))

	store := postgres.NewStore(db, logger)
	return &App{
		Config:     cfg,
		Logger:     logger,
		Store:      store,
		Promotions: promotion.NewService(store, cache, logger, promotion.WithTTLs(cfg.Cache.TTLs)),
		Analytics:  analytics.NewService(store, logger),
		db:         db,
		rdb:        rdb,
	}, nil
}

// NewCache builds the cache selected by CACHE_DRIVER. The redis client is nil
// for the in-process driver.
func NewCache(ctx context.Context, cfg *config.Config) (promotion.Cache, *goredis.Client, error) {
	switch cfg.Cache.Driver {
	case config.CacheDriverMemory:
		return memcache.New(), nil, nil
	case config.CacheDriverRedis:
		rdb, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return redis.NewCache(rdb, cfg.Cache.Prefix), rdb, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}
}

func (a *App) Close() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.Logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.Logger.Warn("Failed to close database", zap.Error(err))
		}
	}
}
