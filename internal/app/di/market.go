// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"drifter/internal/app/config"
	"drifter/internal/feature/candles/domain/entity"
	"drifter/internal/platform/cache"
	"drifter/internal/platform/externalapi/binance"
	"drifter/internal/platform/externalapi/hyperliquid"
	infrahttp "drifter/internal/platform/http"
	"drifter/internal/shared/ratelimiter"
)

// Market is the candle source shared by the recommendation and ingest use cases.
type Market interface {
	GetCandles(ctx context.Context, coin, interval string, startMs, endMs int64) ([]entity.Candle, error)
}

// NewMarket creates the configured candle source with its own HTTP client.
// When rdb is non-nil the source is decorated with the Redis cache.
func NewMarket(cfg config.Config, rdb *redis.Client) (Market, error) {
	httpClient := infrahttp.NewHTTPClient(cfg.Market.Timeout)

	var market Market
	switch cfg.Market.Source {
	case config.SourceHyperliquid:
		hcfg := hyperliquid.DefaultConfig()
		if cfg.Market.BaseURL != "" {
			hcfg.BaseURL = cfg.Market.BaseURL
		}
		if cfg.Market.Timeout > 0 {
			hcfg.Timeout = cfg.Market.Timeout
		}
		market = hyperliquid.NewHyperliquidMarket(hcfg, httpClient)
	case config.SourceBinance:
		bcfg := binance.DefaultConfig()
		bcfg.APIKey = cfg.Binance.APIKey
		bcfg.SecretKey = cfg.Binance.SecretKey
		if cfg.Binance.BaseURL != "" {
			bcfg.BaseURL = cfg.Binance.BaseURL
		}
		if cfg.Binance.Quote != "" {
			bcfg.Quote = cfg.Binance.Quote
		}
		if cfg.Market.Timeout > 0 {
			bcfg.Timeout = cfg.Market.Timeout
		}
		market = binance.NewBinanceMarket(bcfg, httpClient, NewRateLimiter(cfg))
	default:
		return nil, fmt.Errorf("unsupported market source %q", cfg.Market.Source)
	}

	if rdb == nil {
		return market, nil
	}
	return cache.NewCachingMarketRepository(rdb, market, cfg.Cache.MarketNamespace), nil
}

// NewRateLimiter creates the limiter that throttles upstream calls.
func NewRateLimiter(cfg config.Config) *ratelimiter.RateLimiter {
	return ratelimiter.NewRateLimiter(cfg.Market.RateLimit, cfg.Market.RateInterval)
}
