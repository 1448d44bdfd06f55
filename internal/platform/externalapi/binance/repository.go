package binance

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	gobinance "github.com/adshao/go-binance/v2"

	"drifter/internal/feature/candles/domain/entity"
	"drifter/internal/shared/ratelimiter"
)

// pageSize is the maximum number of klines Binance returns per request.
const pageSize = 1000

// BinanceMarket fetches candles from Binance spot klines.
type BinanceMarket struct {
	cfg     Config
	client  *gobinance.Client
	limiter ratelimiter.RateLimiterInterface
}

// NewBinanceMarket creates a BinanceMarket. limiter may be nil.
func NewBinanceMarket(cfg Config, httpClient *http.Client, limiter ratelimiter.RateLimiterInterface) *BinanceMarket {
	if cfg.Quote == "" {
		cfg.Quote = "USDT"
	}
	client := gobinance.NewClient(cfg.APIKey, cfg.SecretKey)
	if httpClient != nil {
		client.HTTPClient = httpClient
	}
	if cfg.BaseURL != "" {
		client.BaseURL = cfg.BaseURL
	}
	return &BinanceMarket{cfg: cfg, client: client, limiter: limiter}
}

// Pair returns the Binance symbol for coin.
func (m *BinanceMarket) Pair(coin string) string {
	return strings.ToUpper(coin) + m.cfg.Quote
}

// GetCandles pages through klines for coin between startMs and endMs inclusive.
func (m *BinanceMarket) GetCandles(ctx context.Context, coin, interval string, startMs, endMs int64) ([]entity.Candle, error) {
	pair := m.Pair(coin)

	var candles []entity.Candle
	for from := startMs; from <= endMs; {
		if m.limiter != nil {
			if err := m.limiter.WaitIfNeeded(ctx); err != nil {
				return nil, err
			}
		}

		klines, err := m.client.NewKlinesService().
			Symbol(pair).
			Interval(interval).
			StartTime(from).
			EndTime(endMs).
			Limit(pageSize).
			Do(ctx)
		if err != nil {
			return nil, fmt.Errorf("binance klines %s: %w", pair, err)
		}

		for _, k := range klines {
			c, err := toCandle(coin, interval, k)
			if err != nil {
				return nil, err
			}
			candles = append(candles, c)
		}

		if len(klines) < pageSize {
			break
		}
		from = klines[len(klines)-1].OpenTime + 1
	}
	return candles, nil
}

func toCandle(coin, interval string, k *gobinance.Kline) (entity.Candle, error) {
	c := entity.Candle{
		Symbol:     coin,
		Interval:   interval,
		TradeCount: k.TradeNum,
	}
	c.FromEpochs(k.OpenTime, k.CloseTime)

	fields := []struct {
		name string
		src  string
		dst  *float64
	}{
		{"open", k.Open, &c.Open},
		{"high", k.High, &c.High},
		{"low", k.Low, &c.Low},
		{"close", k.Close, &c.Close},
		{"volume", k.Volume, &c.Volume},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(f.src, 64)
		if err != nil {
			return entity.Candle{}, fmt.Errorf("parse %s %q: %w", f.name, f.src, err)
		}
		*f.dst = v
	}
	return c, nil
}
