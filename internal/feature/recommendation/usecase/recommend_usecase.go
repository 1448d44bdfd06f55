// Package usecase implements the recommendation flow: validate, fetch, compute, assemble.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	candle "drifter/internal/feature/candles/domain/entity"
	"drifter/internal/feature/recommendation/domain"
	"drifter/internal/feature/recommendation/series"
	"drifter/internal/feature/recommendation/signal"
)

const (
	// DefaultLookBack is the number of minutes analysed when the caller does not say.
	DefaultLookBack = 180
	// DefaultMaxLookBack caps the look-back so that one request stays a single page upstream.
	DefaultMaxLookBack = 5000
	// DefaultTradeMargin is the margin percentage used when the caller does not say.
	DefaultTradeMargin = 1.0
	// DefaultFetchTimeout bounds the upstream candle fetch.
	DefaultFetchTimeout = 10 * time.Second
)

// SupportedIntervals are the interval codes the candle sources serve.
var SupportedIntervals = []string{"1m", "15m", "1h"}

// MarketRepository fetches raw candles for a coin and interval between two epoch instants.
// Following Go convention, the interface is declared by its consumer.
type MarketRepository interface {
	GetCandles(ctx context.Context, coin, interval string, startMs, endMs int64) ([]candle.Candle, error)
}

// CandleSink archives fetched candles. Archiving is best-effort.
type CandleSink interface {
	UpsertBatch(ctx context.Context, candles []candle.Candle) error
}

// Observer receives request-level measurements.
type Observer interface {
	ObserveFetch(coin, interval string, d time.Duration, err error)
	ObserveRecommendation(label string, missingMinutes int)
}

// Request carries the caller's parameters.
type Request struct {
	Coin        string
	Interval    string
	LookBack    int
	TradeMargin float64
	AsOf        time.Time
}

// Result is the outcome of one request together with the normalised request and window.
type Result struct {
	Request Request
	Window  series.Window
	*Outcome
}

// RecommendUsecase serves recommendation requests.
type RecommendUsecase struct {
	market   MarketRepository
	sink     CandleSink
	observer Observer
	pipeline *Pipeline

	fetchTimeout time.Duration
	maxLookBack  int
	logger       *slog.Logger
}

// Option customises a RecommendUsecase.
type Option func(*RecommendUsecase)

// WithCandleSink archives every fetched candle set.
func WithCandleSink(sink CandleSink) Option {
	return func(u *RecommendUsecase) { u.sink = sink }
}

// WithObserver reports fetch and recommendation measurements.
func WithObserver(o Observer) Option {
	return func(u *RecommendUsecase) { u.observer = o }
}

// WithFetchTimeout overrides DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(u *RecommendUsecase) {
		if d > 0 {
			u.fetchTimeout = d
		}
	}
}

// WithMaxLookBack overrides DefaultMaxLookBack.
func WithMaxLookBack(n int) Option {
	return func(u *RecommendUsecase) {
		if n > 0 {
			u.maxLookBack = n
		}
	}
}

// WithLogger sets the logger used for best-effort failures.
func WithLogger(l *slog.Logger) Option {
	return func(u *RecommendUsecase) {
		if l != nil {
			u.logger = l
		}
	}
}

// NewRecommendUsecase creates a RecommendUsecase.
func NewRecommendUsecase(market MarketRepository, pipeline *Pipeline, opts ...Option) *RecommendUsecase {
	u := &RecommendUsecase{
		market:       market,
		pipeline:     pipeline,
		fetchTimeout: DefaultFetchTimeout,
		maxLookBack:  DefaultMaxLookBack,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Validate normalises req and checks every parameter. It returns a domain validation error.
func (u *RecommendUsecase) Validate(req Request) (Request, error) {
	req.Coin = strings.TrimSpace(req.Coin)
	if req.Coin == "" {
		return req, domain.ErrInvalidCoin
	}
	if !slices.Contains(SupportedIntervals, req.Interval) {
		return req, fmt.Errorf("%w: %q", domain.ErrInvalidInterval, req.Interval)
	}
	if req.LookBack <= 0 || req.LookBack > u.maxLookBack {
		return req, fmt.Errorf("%w: %d (allowed 1..%d)", domain.ErrInvalidLookBack, req.LookBack, u.maxLookBack)
	}
	if _, _, err := signal.Multipliers(req.TradeMargin); err != nil {
		return req, err
	}
	if req.AsOf.IsZero() {
		return req, domain.ErrInvalidAsOf
	}
	return req, nil
}

// Recommend validates req, fetches its candles and runs the pipeline.
// Validation failures wrap domain.ErrValidation; fetch failures wrap domain.ErrUpstream.
func (u *RecommendUsecase) Recommend(ctx context.Context, req Request) (*Result, error) {
	req, err := u.Validate(req)
	if err != nil {
		return nil, err
	}

	w, err := series.NewWindow(req.AsOf, req.LookBack)
	if err != nil {
		return nil, err
	}

	// 1) Fetch the window from the market
	candles, err := u.fetch(ctx, req, w)
	if err != nil {
		return nil, err
	}

	// 2) Archive what was fetched (best effort)
	if u.sink != nil && len(candles) > 0 {
		if err := u.sink.UpsertBatch(ctx, candles); err != nil {
			u.logger.WarnContext(ctx, "failed to archive candles", "coin", req.Coin, "interval", req.Interval, "error", err)
		}
	}

	// 3) Align, score and synthesize
	out, err := u.pipeline.Run(ctx, w, candles, req.TradeMargin)
	if err != nil {
		return nil, err
	}

	if u.observer != nil {
		u.observer.ObserveRecommendation(string(out.Recommendation.Label), out.MissingMinutes)
	}
	return &Result{Request: req, Window: w, Outcome: out}, nil
}

func (u *RecommendUsecase) fetch(ctx context.Context, req Request, w series.Window) ([]candle.Candle, error) {
	fctx, cancel := context.WithTimeout(ctx, u.fetchTimeout)
	defer cancel()

	started := time.Now()
	candles, err := u.market.GetCandles(fctx, req.Coin, req.Interval, w.StartEpochMs(), w.EndEpochMs())
	if u.observer != nil {
		u.observer.ObserveFetch(req.Coin, req.Interval, time.Since(started), err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrUpstream, req.Coin, req.Interval, err)
	}
	return candles, nil
}
