// Package dto holds the HTTP payloads of the candles feature.
package dto

// CandleResponse is one archived candle.
type CandleResponse struct {
	Time       string  `json:"time"` // minute bucket, RFC 3339 UTC
	StartEpoch int64   `json:"start_epoch"`
	EndEpoch   int64   `json:"end_epoch"`
	Open       float64 `json:"open"`
	High       float64 `json:"high"`
	Low        float64 `json:"low"`
	Close      float64 `json:"close"`
	Volume     float64 `json:"volume"`
	TradeCount int64   `json:"trade_count"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
