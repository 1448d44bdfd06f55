// Package binance provides a candle source backed by the Binance spot klines API.
package binance

import "time"

// Config holds configuration for the Binance klines client.
type Config struct {
	APIKey    string        // Optional; klines are a public endpoint
	SecretKey string        // Optional
	BaseURL   string        // Overrides the SDK default when set (tests, testnet)
	Quote     string        // Quote asset appended to the coin (e.g., "USDT")
	Timeout   time.Duration // HTTP request timeout
}

// DefaultConfig returns a public client quoting in USDT.
func DefaultConfig() Config {
	return Config{
		Quote:   "USDT",
		Timeout: 10 * time.Second,
	}
}
