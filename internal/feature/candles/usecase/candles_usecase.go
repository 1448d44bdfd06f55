// Package usecase implements reading and ingesting archived candles.
package usecase

import (
	"context"
	"strings"

	"drifter/internal/feature/candles/domain/entity"
)

const (
	// DefaultInterval is the interval used when a query omits it.
	DefaultInterval = "1m"
	// DefaultOutputSize is the number of candles returned by default.
	DefaultOutputSize = 200
	// MaxOutputSize caps the number of candles returned.
	MaxOutputSize = 5000
)

// CandleRepository abstracts the candle archive.
// Interfaces are declared by the consumer.
type CandleRepository interface {
	// Find returns up to limit candles, newest first.
	Find(ctx context.Context, symbol, interval string, limit int) ([]entity.Candle, error)
	// UpsertBatch inserts or updates candles keyed by coin, interval and start epoch.
	UpsertBatch(ctx context.Context, candles []entity.Candle) error
}

type candlesUsecase struct {
	candle CandleRepository
}

// NewCandlesUsecase creates the archive read use case.
func NewCandlesUsecase(candle CandleRepository) *candlesUsecase {
	return &candlesUsecase{candle: candle}
}

// GetCandles returns archived candles for coin and interval.
func (cu *candlesUsecase) GetCandles(ctx context.Context, coin, interval string, outputsize int) ([]entity.Candle, error) {
	if interval == "" {
		interval = DefaultInterval
	}
	if outputsize <= 0 || outputsize > MaxOutputSize {
		outputsize = DefaultOutputSize
	}

	return cu.candle.Find(ctx, strings.TrimSpace(coin), interval, outputsize)
}
