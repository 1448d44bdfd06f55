package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"drifter/internal/feature/candles/domain/entity"
	"drifter/internal/feature/candles/usecase"
)

// ErrDB is a sentinel error shared by the mocks and the expectations.
var ErrDB = errors.New("database error")

// mockCandleRepository is a mock implementation of CandleRepository.
type mockCandleRepository struct {
	FindFunc        func(ctx context.Context, symbol, interval string, limit int) ([]entity.Candle, error)
	UpsertBatchFunc func(ctx context.Context, candles []entity.Candle) error
	FindCalls       int
}

func (m *mockCandleRepository) Find(ctx context.Context, symbol, interval string, limit int) ([]entity.Candle, error) {
	m.FindCalls++
	if m.FindFunc != nil {
		return m.FindFunc(ctx, symbol, interval, limit)
	}
	return nil, errors.New("FindFunc is not implemented")
}

func (m *mockCandleRepository) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	if m.UpsertBatchFunc != nil {
		return m.UpsertBatchFunc(ctx, candles)
	}
	return errors.New("UpsertBatchFunc is not implemented")
}

func TestCandlesUsecase_GetCandles(t *testing.T) {
	t.Parallel()

	expectedCandles := []entity.Candle{
		{Symbol: "BTC", Interval: "1m", Time: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), Close: 105},
	}

	tests := []struct {
		name               string
		inputCoin          string
		inputInterval      string
		inputOutputsize    int
		findErr            error
		expectedErr        error
		expectedCoin       string
		expectedInterval   string
		expectedOutputsize int
	}{
		{
			name:               "success: all parameters specified",
			inputCoin:          "ETH",
			inputInterval:      "15m",
			inputOutputsize:    50,
			expectedCoin:       "ETH",
			expectedInterval:   "15m",
			expectedOutputsize: 50,
		},
		{
			name:               "success: default interval",
			inputCoin:          " BTC ",
			inputOutputsize:    100,
			expectedCoin:       "BTC",
			expectedInterval:   usecase.DefaultInterval,
			expectedOutputsize: 100,
		},
		{
			name:               "success: zero outputsize uses default",
			inputCoin:          "BTC",
			inputInterval:      "1m",
			expectedCoin:       "BTC",
			expectedInterval:   "1m",
			expectedOutputsize: usecase.DefaultOutputSize,
		},
		{
			name:               "success: outputsize above max uses default",
			inputCoin:          "BTC",
			inputInterval:      "1m",
			inputOutputsize:    usecase.MaxOutputSize + 1,
			expectedCoin:       "BTC",
			expectedInterval:   "1m",
			expectedOutputsize: usecase.DefaultOutputSize,
		},
		{
			name:               "error: repository error is returned",
			inputCoin:          "BTC",
			inputInterval:      "1m",
			inputOutputsize:    10,
			findErr:            ErrDB,
			expectedErr:        ErrDB,
			expectedCoin:       "BTC",
			expectedInterval:   "1m",
			expectedOutputsize: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &mockCandleRepository{
				FindFunc: func(_ context.Context, symbol, interval string, limit int) ([]entity.Candle, error) {
					assert.Equal(t, tt.expectedCoin, symbol)
					assert.Equal(t, tt.expectedInterval, interval)
					assert.Equal(t, tt.expectedOutputsize, limit)
					if tt.findErr != nil {
						return nil, tt.findErr
					}
					return expectedCandles, nil
				},
			}
			uc := usecase.NewCandlesUsecase(repo)

			got, err := uc.GetCandles(context.Background(), tt.inputCoin, tt.inputInterval, tt.inputOutputsize)

			assert.Equal(t, 1, repo.FindCalls)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, expectedCandles, got)
		})
	}
}
