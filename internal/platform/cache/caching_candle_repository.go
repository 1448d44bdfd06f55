package cache

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"drifter/internal/feature/candles/domain/entity"
	"drifter/internal/feature/candles/usecase"
)

// CachingCandleRepository decorates the candle archive with Redis caching of reads.
// Writes invalidate every cached read of the affected coin and interval.
type CachingCandleRepository struct {
	inner usecase.CandleRepository
	store store
	ttl   time.Duration
}

var _ usecase.CandleRepository = (*CachingCandleRepository)(nil)

// NewCachingCandleRepository decorates inner. A nil rdb disables caching.
// If ttl is 0, it defaults to 1 minute. If namespace is empty, it uses "candles".
func NewCachingCandleRepository(rdb *redis.Client, ttl time.Duration, inner usecase.CandleRepository, namespace string) *CachingCandleRepository {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if namespace == "" {
		namespace = "candles"
	}
	return &CachingCandleRepository{
		inner: inner,
		store: store{rdb: rdb, namespace: namespace},
		ttl:   ttl,
	}
}

// UpsertBatch writes through to the archive, then invalidates affected cache entries.
func (c *CachingCandleRepository) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	// First upsert to the archive
	if err := c.inner.UpsertBatch(ctx, candles); err != nil {
		return err
	}
	// Nothing to invalidate without Redis or candles
	if c.store.rdb == nil || len(candles) == 0 {
		return nil
	}

	// Invalidate every cached Find of the affected coin and interval
	seen := map[string]struct{}{}
	for _, cd := range candles {
		prefix := c.store.key(cd.Symbol, cd.Interval) + ":"
		if _, ok := seen[prefix]; ok {
			continue
		}
		seen[prefix] = struct{}{}
		if err := c.store.deleteByPattern(ctx, prefix+"*"); err != nil {
			slog.WarnContext(ctx, "cache invalidation failed", "prefix", prefix, "error", err)
		}
	}
	return nil
}

// Find returns cached candles or reads them from the archive.
func (c *CachingCandleRepository) Find(ctx context.Context, symbol, interval string, limit int) ([]entity.Candle, error) {
	// Bypass cache if Redis is not configured
	if c.store.rdb == nil {
		return c.inner.Find(ctx, symbol, interval, limit)
	}

	key := c.store.key(symbol, interval, strconv.Itoa(limit))

	// 1) Check cache
	var out []entity.Candle
	if c.store.load(ctx, key, &out) {
		return out, nil
	}

	// 2) Fallback to the archive
	out, err := c.inner.Find(ctx, symbol, interval, limit)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	c.store.save(ctx, key, out, c.ttl)
	return out, nil
}
