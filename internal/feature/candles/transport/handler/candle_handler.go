// Package handler provides the HTTP handlers of the candles feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"drifter/internal/feature/candles/domain/entity"
	"drifter/internal/feature/candles/transport/http/dto"
	"drifter/internal/feature/candles/usecase"
)

// CandlesUsecase reads archived candles.
type CandlesUsecase interface {
	GetCandles(ctx context.Context, coin, interval string, outputsize int) ([]entity.Candle, error)
}

// CandlesHandler serves archived candles.
type CandlesHandler struct {
	uc CandlesUsecase
}

// NewCandlesHandler creates a CandlesHandler.
func NewCandlesHandler(uc CandlesUsecase) *CandlesHandler {
	return &CandlesHandler{uc: uc}
}

// GetCandlesHandler returns the archived candles of one coin, newest first.
//
// Example:
// GET /candles/:coin?interval=1m&outputsize=200
func (h *CandlesHandler) GetCandlesHandler(c *gin.Context) {
	coin := c.Param("coin")
	interval := c.DefaultQuery("interval", usecase.DefaultInterval)
	// a malformed outputsize falls back to the default in the use case
	outputsize, _ := strconv.Atoi(c.DefaultQuery("outputsize", strconv.Itoa(usecase.DefaultOutputSize)))

	candles, err := h.uc.GetCandles(c.Request.Context(), coin, interval, outputsize)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to read candles", "coin", coin, "interval", interval, "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}

	out := make([]dto.CandleResponse, 0, len(candles))
	for _, x := range candles {
		out = append(out, dto.CandleResponse{
			Time:       x.Time.UTC().Format(time.RFC3339),
			StartEpoch: x.StartEpoch,
			EndEpoch:   x.EndEpoch,
			Open:       x.Open,
			High:       x.High,
			Low:        x.Low,
			Close:      x.Close,
			Volume:     x.Volume,
			TradeCount: x.TradeCount,
		})
	}

	c.JSON(http.StatusOK, out)
}
