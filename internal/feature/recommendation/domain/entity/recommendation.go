// Package entity defines the domain models for the recommendation feature.
package entity

import (
	"github.com/volatiletech/null"
)

// Label is the directional call of a recommendation.
type Label string

const (
	LabelLong  Label = "LONG"
	LabelHold  Label = "HOLD"
	LabelShort Label = "SHORT"
)

// Recommendation is the synthesized call plus its price levels.
// The price levels are null for HOLD and whenever the last close is missing.
type Recommendation struct {
	Label           Label
	Score           float64
	TakeProfit      null.Float64
	StopLoss        null.Float64
	LimitOrderPrice null.Float64
}

// Output field names that are not series columns.
const (
	FieldRecommendation  = "recommendation"
	FieldTakeProfit      = "take_profit"
	FieldStopLoss        = "stop_loss"
	FieldLimitOrderPrice = "limit_order_price"
)

// OutputFields is the fixed, ordered schema of a Record.
var OutputFields = []string{
	// time & metadata
	"ts", "start_time", "end_time", "start_epoch", "end_epoch", "symbol", "interval",

	// price & volume
	"opening_price", "closing_price", "highest_price", "lowest_price", "volume_traded", "trade_count",

	// indicators
	"RSI", "MACD", "MACD_signal", "MA_20", "SMA_20", "SMA_50", "EMA_9", "EMA_21", "STD_20",
	"Bollinger_upper", "Bollinger_lower", "ATR_14", "OBV", "VWAP",

	// strategy
	FieldRecommendation, FieldTakeProfit, FieldStopLoss, FieldLimitOrderPrice,
}
