package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"drifter/internal/feature/candles/domain/entity"
	"drifter/internal/feature/recommendation/usecase"
)

// CachingMarketRepository decorates a candle source with Redis caching.
// Entries are keyed by the exact query window and expire at the next minute boundary,
// when a new minute closes and request windows move on.
type CachingMarketRepository struct {
	inner usecase.MarketRepository
	store store
	now   func() time.Time
}

var _ usecase.MarketRepository = (*CachingMarketRepository)(nil)

// NewCachingMarketRepository decorates inner. A nil rdb disables caching.
// If namespace is empty, it uses "market".
func NewCachingMarketRepository(rdb *redis.Client, inner usecase.MarketRepository, namespace string) *CachingMarketRepository {
	if namespace == "" {
		namespace = "market"
	}
	return &CachingMarketRepository{
		inner: inner,
		store: store{rdb: rdb, namespace: namespace},
		now:   time.Now,
	}
}

// GetCandles returns cached candles for the window, or fetches and caches them.
// Upstream errors are never cached; neither are empty results.
func (c *CachingMarketRepository) GetCandles(ctx context.Context, coin, interval string, startMs, endMs int64) ([]entity.Candle, error) {
	// Bypass cache if Redis is not configured
	if c.store.rdb == nil {
		return c.inner.GetCandles(ctx, coin, interval, startMs, endMs)
	}

	key := c.store.key(coin, interval, strconv.FormatInt(startMs, 10), strconv.FormatInt(endMs, 10))

	// 1) Check cache
	var out []entity.Candle
	if c.store.load(ctx, key, &out) {
		return out, nil
	}

	// 2) Fallback to the upstream API
	out, err := c.inner.GetCandles(ctx, coin, interval, startMs, endMs)
	if err != nil {
		return nil, err
	}

	// 3) Store until the next minute closes (best effort)
	if len(out) > 0 {
		c.store.save(ctx, key, out, TimeUntilNextMinute(c.now()))
	}
	return out, nil
}
