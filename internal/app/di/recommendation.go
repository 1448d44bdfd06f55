package di

import (
	"log/slog"

	"drifter/internal/app/config"
	candleusecase "drifter/internal/feature/candles/usecase"
	"drifter/internal/feature/recommendation/indicator"
	"drifter/internal/feature/recommendation/usecase"
	"drifter/internal/platform/metrics"
)

// NewRecommendUsecase wires the recommendation pipeline. archive may be nil and m may be nil.
func NewRecommendUsecase(cfg config.Config, market Market, archive candleusecase.CandleRepository, m *metrics.Metrics, logger *slog.Logger) (*usecase.RecommendUsecase, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	engine := indicator.NewEngine(logger)
	opts := []usecase.Option{
		usecase.WithFetchTimeout(cfg.Recommendation.FetchTimeout),
		usecase.WithMaxLookBack(cfg.Recommendation.MaxLookBack),
		usecase.WithLogger(logger),
	}
	if m != nil {
		engine.OnFailure = m.IndicatorFailed
		opts = append(opts, usecase.WithObserver(m))
	}
	if cfg.Recommendation.Archive && archive != nil {
		opts = append(opts, usecase.WithCandleSink(archive))
	}

	return usecase.NewRecommendUsecase(market, usecase.NewPipeline(engine, loc), opts...), nil
}
