package hyperliquid

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"drifter/internal/feature/candles/domain/entity"
	"drifter/internal/platform/externalapi/hyperliquid/dto"
)

// HyperliquidMarket fetches candles from the Hyperliquid info endpoint.
type HyperliquidMarket struct {
	cfg    Config
	client *http.Client
}

// NewHyperliquidMarket creates a HyperliquidMarket with the given config and HTTP client.
func NewHyperliquidMarket(cfg Config, client *http.Client) *HyperliquidMarket {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &HyperliquidMarket{cfg: cfg, client: client}
}

// GetCandles requests a candle snapshot for coin between startMs and endMs inclusive.
// A non-200 status is an error; individual malformed candles are logged and skipped.
func (m *HyperliquidMarket) GetCandles(ctx context.Context, coin, interval string, startMs, endMs int64) ([]entity.Candle, error) {
	payload, err := json.Marshal(dto.CandleSnapshotRequest{
		Type: "candleSnapshot",
		Req: dto.CandleSnapshotArgs{
			Coin:      coin,
			Interval:  interval,
			StartTime: startMs,
			EndTime:   endMs,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.BaseURL+"/info", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hyperliquid http %d", res.StatusCode)
	}

	var items []json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode candle snapshot: %w", err)
	}

	candles := make([]entity.Candle, 0, len(items))
	for i, raw := range items {
		c, err := toCandle(raw)
		if err != nil {
			slog.Warn("skipping malformed candle", "coin", coin, "index", i, "error", err)
			continue
		}
		candles = append(candles, c)
	}
	return candles, nil
}

var errMissingField = errors.New("missing field")

func toCandle(raw json.RawMessage) (entity.Candle, error) {
	var v dto.Candle
	if err := json.Unmarshal(raw, &v); err != nil {
		return entity.Candle{}, err
	}

	switch {
	case v.OpenTime == nil:
		return entity.Candle{}, fmt.Errorf("%w: t", errMissingField)
	case v.CloseTime == nil:
		return entity.Candle{}, fmt.Errorf("%w: T", errMissingField)
	case v.Symbol == nil:
		return entity.Candle{}, fmt.Errorf("%w: s", errMissingField)
	case v.Interval == nil:
		return entity.Candle{}, fmt.Errorf("%w: i", errMissingField)
	case v.TradeCount == nil:
		return entity.Candle{}, fmt.Errorf("%w: n", errMissingField)
	}

	c := entity.Candle{
		Symbol:     *v.Symbol,
		Interval:   *v.Interval,
		TradeCount: *v.TradeCount,
	}
	c.FromEpochs(*v.OpenTime, *v.CloseTime)

	prices := []struct {
		name string
		src  *string
		dst  *float64
	}{
		{"o", v.Open, &c.Open},
		{"c", v.Close, &c.Close},
		{"h", v.High, &c.High},
		{"l", v.Low, &c.Low},
		{"v", v.Volume, &c.Volume},
	}
	for _, p := range prices {
		if p.src == nil {
			return entity.Candle{}, fmt.Errorf("%w: %s", errMissingField, p.name)
		}
		f, err := strconv.ParseFloat(*p.src, 64)
		if err != nil {
			return entity.Candle{}, fmt.Errorf("parse %s %q: %w", p.name, *p.src, err)
		}
		*p.dst = f
	}
	return c, nil
}
