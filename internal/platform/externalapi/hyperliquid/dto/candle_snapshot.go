// Package dto defines data transfer objects for the Hyperliquid info API.
package dto

// CandleSnapshotRequest is the body of a candleSnapshot info request.
type CandleSnapshotRequest struct {
	Type string             `json:"type"`
	Req  CandleSnapshotArgs `json:"req"`
}

// CandleSnapshotArgs selects the coin, interval and epoch range of a snapshot.
type CandleSnapshotArgs struct {
	Coin      string `json:"coin"`
	Interval  string `json:"interval"`
	StartTime int64  `json:"startTime"`
	EndTime   int64  `json:"endTime"`
}

// Candle is one item of a candleSnapshot response. Prices and volume arrive as strings.
// Pointer fields distinguish a missing key from a zero value.
type Candle struct {
	OpenTime   *int64  `json:"t"`
	CloseTime  *int64  `json:"T"`
	Symbol     *string `json:"s"`
	Interval   *string `json:"i"`
	Open       *string `json:"o"`
	Close      *string `json:"c"`
	High       *string `json:"h"`
	Low        *string `json:"l"`
	Volume     *string `json:"v"`
	TradeCount *int64  `json:"n"`
}
