// Package handler provides the HTTP handlers of the symbollist feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"drifter/internal/feature/symbollist/domain/entity"
	"drifter/internal/feature/symbollist/transport/http/dto"
)

// SymbolUsecase lists the tracked coins.
type SymbolUsecase interface {
	ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error)
}

// SymbolHandler serves the tracked coin list.
type SymbolHandler struct {
	uc SymbolUsecase
}

// NewSymbolHandler creates a SymbolHandler.
func NewSymbolHandler(uc SymbolUsecase) *SymbolHandler {
	return &SymbolHandler{uc: uc}
}

// List returns the active coins, optionally only those of one venue.
// Internal fields such as the sort key are not exposed.
//
// Example:
// GET /symbols?venue=hyperliquid
func (h *SymbolHandler) List(c *gin.Context) {
	symbols, err := h.uc.ListActiveSymbols(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to list symbols", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to list symbols"})
		return
	}

	venue := strings.TrimSpace(c.Query("venue"))
	out := make([]dto.SymbolItem, 0, len(symbols))
	for _, s := range symbols {
		if venue != "" && !strings.EqualFold(s.Venue, venue) {
			continue
		}
		out = append(out, dto.SymbolItem{Code: s.Code, Name: s.Name, Venue: s.Venue})
	}
	c.JSON(http.StatusOK, out)
}
