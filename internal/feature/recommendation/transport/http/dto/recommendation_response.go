// Package dto defines the wire shapes of the recommendation endpoints.
package dto

import "drifter/internal/feature/recommendation/domain/entity"

// RecommendationResponse is the body of a successful GET /recommendation.
type RecommendationResponse struct {
	Status string           `json:"status"`
	Config ConfigResponse   `json:"config"`
	Data   []*entity.Record `json:"data"`
	Signal SignalResponse   `json:"signal"`
}

// ConfigResponse echoes the effective request parameters.
type ConfigResponse struct {
	ScrappingInterval string  `json:"SCRAPPING_INTERVAL"`
	LookBack          int     `json:"LOOK_BACK"`
	TradeMargin       float64 `json:"TRADE_MARGIN"`
	CurrentTime       string  `json:"CURRENT_TIME"` // RFC 3339 in the display zone
	Coin              string  `json:"COIN"`
}

// SignalResponse exposes how the score was reached.
type SignalResponse struct {
	Score          float64        `json:"score"`
	Votes          []VoteResponse `json:"votes"`
	NeutralFactors []string       `json:"neutral_factors"`
	MissingMinutes int            `json:"missing_minutes"`
}

// VoteResponse is one factor's contribution to the score.
type VoteResponse struct {
	Factor string  `json:"factor"`
	Value  float64 `json:"value"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
