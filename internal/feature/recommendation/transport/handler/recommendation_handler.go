// Package handler provides the HTTP handlers of the recommendation feature.
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"drifter/internal/feature/recommendation/domain"
	"drifter/internal/feature/recommendation/domain/entity"
	"drifter/internal/feature/recommendation/transport/http/dto"
	"drifter/internal/feature/recommendation/usecase"
)

// RecommendUsecase produces a recommendation for one request.
type RecommendUsecase interface {
	Recommend(ctx context.Context, req usecase.Request) (*usecase.Result, error)
}

// RecommendationHandler serves GET /recommendation.
type RecommendationHandler struct {
	uc  RecommendUsecase
	loc *time.Location
	now func() time.Time
}

// NewRecommendationHandler creates a handler. loc is the zone used to echo the request time.
func NewRecommendationHandler(uc RecommendUsecase, loc *time.Location) *RecommendationHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &RecommendationHandler{uc: uc, loc: loc, now: time.Now}
}

// WithClock replaces the clock used when as_of is absent.
func (h *RecommendationHandler) WithClock(now func() time.Time) *RecommendationHandler {
	h.now = now
	return h
}

// GetRecommendation parses the query, runs the use case and writes the record.
//
// Example:
// GET /recommendation?coin=BTC&scrapping_interval=1m&look_back=180&trade_margin=1.0
func (h *RecommendationHandler) GetRecommendation(c *gin.Context) {
	req, err := h.parse(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	res, err := h.uc.Recommend(c.Request.Context(), req)
	if err != nil {
		status := StatusFor(err)
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(c.Request.Context(), "recommendation failed", "coin", req.Coin, "interval", req.Interval, "error", err)
		}
		c.JSON(status, dto.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.toResponse(res))
}

func (h *RecommendationHandler) parse(c *gin.Context) (usecase.Request, error) {
	interval := c.Query("scrapping_interval")
	if interval == "" {
		interval = c.DefaultQuery("interval", "1m")
	}

	lookBack, err := strconv.Atoi(c.DefaultQuery("look_back", strconv.Itoa(usecase.DefaultLookBack)))
	if err != nil {
		return usecase.Request{}, fmt.Errorf("%w: %s", domain.ErrInvalidLookBack, c.Query("look_back"))
	}

	margin, err := strconv.ParseFloat(c.DefaultQuery("trade_margin", "1.0"), 64)
	if err != nil {
		return usecase.Request{}, fmt.Errorf("%w: %s", domain.ErrInvalidTradeMargin, c.Query("trade_margin"))
	}

	asOf := h.now()
	if raw := c.Query("as_of"); raw != "" {
		asOf, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return usecase.Request{}, fmt.Errorf("%w: %s", domain.ErrInvalidAsOf, raw)
		}
	}

	return usecase.Request{
		Coin:        c.DefaultQuery("coin", "BTC"),
		Interval:    interval,
		LookBack:    lookBack,
		TradeMargin: margin,
		AsOf:        asOf,
	}, nil
}

func (h *RecommendationHandler) toResponse(res *usecase.Result) dto.RecommendationResponse {
	votes := make([]dto.VoteResponse, 0, len(res.Score.Votes))
	for _, v := range res.Score.Votes {
		votes = append(votes, dto.VoteResponse{Factor: v.Factor, Value: v.Value})
	}
	neutral := res.Score.NeutralFactors
	if neutral == nil {
		neutral = []string{}
	}

	return dto.RecommendationResponse{
		Status: "success",
		Config: dto.ConfigResponse{
			ScrappingInterval: res.Request.Interval,
			LookBack:          res.Request.LookBack,
			TradeMargin:       res.Request.TradeMargin,
			CurrentTime:       res.Request.AsOf.In(h.loc).Format(time.RFC3339),
			Coin:              res.Request.Coin,
		},
		Data: []*entity.Record{res.Record},
		Signal: dto.SignalResponse{
			Score:          res.Score.Value,
			Votes:          votes,
			NeutralFactors: neutral,
			MissingMinutes: res.MissingMinutes,
		},
	}
}

// StatusFor maps a recommendation error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
