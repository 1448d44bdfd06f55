// Package entity defines the domain models for the candles feature.
package entity

import "time"

// Candle represents one OHLCV observation for a coin at a fixed interval.
type Candle struct {
	Symbol     string    // Coin or pair as reported by the source (e.g., "BTC", "BTCUSDT")
	Interval   string    // Interval code (e.g., "1m", "15m", "1h")
	Time       time.Time // Minute bucket of the candle start
	StartTime  time.Time // Exact start of the candle period
	EndTime    time.Time // Exact end of the candle period
	StartEpoch int64     // Start of the period in epoch milliseconds
	EndEpoch   int64     // End of the period in epoch milliseconds
	Open       float64   // Opening price
	High       float64   // Highest price during this period
	Low        float64   // Lowest price during this period
	Close      float64   // Closing price
	Volume     float64   // Traded volume
	TradeCount int64     // Number of trades
}

// FromEpochs fills the time fields of c from its start and end epochs.
func (c *Candle) FromEpochs(startMs, endMs int64) {
	c.StartEpoch = startMs
	c.EndEpoch = endMs
	c.StartTime = time.UnixMilli(startMs).UTC()
	c.EndTime = time.UnixMilli(endMs).UTC()
	c.Time = c.StartTime.Truncate(time.Minute)
}
