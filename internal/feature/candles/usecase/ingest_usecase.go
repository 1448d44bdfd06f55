package usecase

import (
	"context"
	"log/slog"
	"time"

	"drifter/internal/feature/candles/domain/entity"
	"drifter/internal/shared/ratelimiter"
)

const (
	// DefaultIngestLookBack is the trailing window fetched per coin and interval.
	DefaultIngestLookBack = 3 * time.Hour
)

// DefaultIngestIntervals are the intervals archived by IngestAll.
var DefaultIngestIntervals = []string{"1m"}

// MarketRepository fetches candles from an upstream source.
type MarketRepository interface {
	GetCandles(ctx context.Context, coin, interval string, startMs, endMs int64) ([]entity.Candle, error)
}

// IngestUsecase copies recent candles from the market into the archive.
type IngestUsecase struct {
	market      MarketRepository
	candle      CandleRepository
	rateLimiter ratelimiter.RateLimiterInterface
	intervals   []string
	lookBack    time.Duration
	now         func() time.Time
}

// IngestOption customizes an IngestUsecase.
type IngestOption func(*IngestUsecase)

// WithIntervals overrides the archived intervals.
func WithIntervals(intervals ...string) IngestOption {
	return func(iu *IngestUsecase) {
		if len(intervals) > 0 {
			iu.intervals = intervals
		}
	}
}

// WithLookBack overrides the trailing window.
func WithLookBack(d time.Duration) IngestOption {
	return func(iu *IngestUsecase) {
		if d > 0 {
			iu.lookBack = d
		}
	}
}

// WithClock overrides the clock used to derive the window.
func WithClock(now func() time.Time) IngestOption {
	return func(iu *IngestUsecase) { iu.now = now }
}

// NewIngestUsecase creates a new IngestUsecase.
func NewIngestUsecase(market MarketRepository, candle CandleRepository, rateLimiter ratelimiter.RateLimiterInterface, opts ...IngestOption) *IngestUsecase {
	iu := &IngestUsecase{
		market:      market,
		candle:      candle,
		rateLimiter: rateLimiter,
		intervals:   DefaultIngestIntervals,
		lookBack:    DefaultIngestLookBack,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(iu)
	}
	return iu
}

// ingestOne fetches [startMs, endMs] for coin and interval and upserts the result.
func (iu *IngestUsecase) ingestOne(ctx context.Context, coin, interval string, startMs, endMs int64) (int, error) {
	cs, err := iu.market.GetCandles(ctx, coin, interval, startMs, endMs)
	if err != nil {
		return 0, err
	}

	for i := range cs {
		cs[i].Symbol = coin
		cs[i].Interval = interval
	}
	return len(cs), iu.candle.UpsertBatch(ctx, cs)
}

// IngestAll archives the trailing window of every coin at every configured interval.
// A failing coin is logged and skipped; only context cancellation stops the run.
func (iu *IngestUsecase) IngestAll(ctx context.Context, coins []string) error {
	end := iu.now().UTC().Truncate(time.Minute)
	startMs := end.Add(-iu.lookBack).UnixMilli()
	endMs := end.UnixMilli() - 1

	for _, coin := range coins {
		for _, interval := range iu.intervals {
			// Respect the upstream rate limit
			if err := iu.rateLimiter.WaitIfNeeded(ctx); err != nil {
				return err
			}
			n, err := iu.ingestOne(ctx, coin, interval, startMs, endMs)
			if err != nil {
				slog.ErrorContext(ctx, "failed to ingest candles", "coin", coin, "interval", interval, "error", err)
				continue
			}
			slog.InfoContext(ctx, "ingested candles", "coin", coin, "interval", interval, "count", n)
		}
	}
	return nil
}
