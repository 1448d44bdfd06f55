package di

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"drifter/internal/app/config"
	candleadapters "drifter/internal/feature/candles/adapters"
	candleusecase "drifter/internal/feature/candles/usecase"
	symboladapters "drifter/internal/feature/symbollist/adapters"
	symbolentity "drifter/internal/feature/symbollist/domain/entity"
	symbolusecase "drifter/internal/feature/symbollist/usecase"
	"drifter/internal/platform/cache"
	infradb "drifter/internal/platform/db"
	infraredis "drifter/internal/platform/redis"
)

// OpenDatabase connects to the configured database. It returns nil when none is configured.
func OpenDatabase(ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	if !cfg.DB.Enabled() {
		return nil, nil
	}
	return infradb.Open(ctx, infradb.Config{
		Driver:         cfg.DB.Driver,
		DSN:            cfg.DB.DSN,
		Host:           cfg.DB.Host,
		Port:           cfg.DB.Port,
		User:           cfg.DB.User,
		Password:       cfg.DB.Password,
		Name:           cfg.DB.Name,
		SSLMode:        cfg.DB.SSLMode,
		ConnectTimeout: cfg.DB.ConnectTimeout,
		Migrate:        cfg.DB.Migrate,
	}, &candleadapters.CandleModel{}, &symbolentity.Symbol{})
}

// OpenRedis connects to Redis. A failed connection is logged and the service runs without cache.
func OpenRedis(ctx context.Context, cfg config.Config) *redis.Client {
	rdb, err := infraredis.NewRedisClient(ctx, infraredis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		slog.Warn("redis unavailable, running without cache", "addr", cfg.Redis.Addr, "error", err)
		return nil
	}
	return rdb
}

// NewCandleArchive returns the cached candle archive, or nil when db is nil.
func NewCandleArchive(cfg config.Config, db *gorm.DB, rdb *redis.Client) candleusecase.CandleRepository {
	if db == nil {
		return nil
	}
	return cache.NewCachingCandleRepository(rdb, cfg.Cache.ArchiveTTL, candleadapters.NewCandleRepository(db), "candles")
}

// NewSymbolRepository lists active coins from the symbols table, or from ingest.coins
// when no database is configured.
func NewSymbolRepository(cfg config.Config, db *gorm.DB) symbolusecase.SymbolRepository {
	if db != nil {
		return symboladapters.NewSymbolRepository(db)
	}
	return symboladapters.NewStaticSymbolRepository(cfg.Market.Source, cfg.Ingest.Coins)
}
