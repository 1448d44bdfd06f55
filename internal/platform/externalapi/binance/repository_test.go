package binance

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drifter/internal/shared/ratelimiter"
)

func kline(openMs int64, close string) string {
	return fmt.Sprintf(`[%d,"1.5","3.0","1.0",%q,"10.25",%d,"15.0",42,"5.0","7.5","0"]`, openMs, close, openMs+59_999)
}

func TestBinanceMarket_GetCandles_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/klines", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "ETHUSDT", q.Get("symbol"))
		assert.Equal(t, "1m", q.Get("interval"))
		assert.Equal(t, "1700000000000", q.Get("startTime"))
		assert.Equal(t, "1700000119999", q.Get("endTime"))
		assert.Equal(t, "1000", q.Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[" + kline(1700000000000, "2.5") + "," + kline(1700000060000, "2.75") + "]"))
	}))
	defer server.Close()

	market := NewBinanceMarket(Config{BaseURL: server.URL, Quote: "USDT"}, server.Client(), nil)

	candles, err := market.GetCandles(context.Background(), "eth", "1m", 1700000000000, 1700000119999)
	require.NoError(t, err)
	require.Len(t, candles, 2)

	c := candles[0]
	assert.Equal(t, "eth", c.Symbol)
	assert.Equal(t, "1m", c.Interval)
	assert.Equal(t, 1.5, c.Open)
	assert.Equal(t, 3.0, c.High)
	assert.Equal(t, 1.0, c.Low)
	assert.Equal(t, 2.5, c.Close)
	assert.Equal(t, 10.25, c.Volume)
	assert.Equal(t, int64(42), c.TradeCount)
	assert.Equal(t, int64(1700000059999), c.EndEpoch)
	assert.Equal(t, 2.75, candles[1].Close)
}

func TestBinanceMarket_GetCandles_Paginates(t *testing.T) {
	t.Parallel()

	const start = int64(1700000000000)
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		from, _ := strconv.ParseInt(r.URL.Query().Get("startTime"), 10, 64)

		size := pageSize
		if n == 2 {
			size = 3
			assert.Equal(t, start+int64(pageSize-1)*60_000+1, from)
		}
		items := make([]string, 0, size)
		first := from
		if n == 2 {
			first = from - 1 + 60_000
		}
		for i := 0; i < size; i++ {
			items = append(items, kline(first+int64(i)*60_000, "1"))
		}
		_, _ = w.Write([]byte("[" + strings.Join(items, ",") + "]"))
	}))
	defer server.Close()

	market := NewBinanceMarket(Config{BaseURL: server.URL}, server.Client(), ratelimiter.NewRateLimiter(100, time.Second))

	candles, err := market.GetCandles(context.Background(), "BTC", "1m", start, start+int64(pageSize+10)*60_000)
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
	assert.Len(t, candles, pageSize+3)
}

func TestBinanceMarket_GetCandles_APIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer server.Close()

	market := NewBinanceMarket(Config{BaseURL: server.URL}, server.Client(), nil)

	_, err := market.GetCandles(context.Background(), "NOPE", "1m", 0, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "binance klines NOPEUSDT")
}

func TestBinanceMarket_GetCandles_BadNumber(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[" + kline(0, "x") + "]"))
	}))
	defer server.Close()

	market := NewBinanceMarket(Config{BaseURL: server.URL}, server.Client(), nil)

	_, err := market.GetCandles(context.Background(), "BTC", "1m", 0, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse close")
}

func TestBinanceMarket_Pair(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "SOLUSDT", NewBinanceMarket(Config{}, nil, nil).Pair("sol"))
	assert.Equal(t, "SOLBTC", NewBinanceMarket(Config{Quote: "BTC"}, nil, nil).Pair("SOL"))
}
