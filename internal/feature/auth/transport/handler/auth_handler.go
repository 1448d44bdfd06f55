// Package handler provides the HTTP handlers of the auth feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"drifter/internal/feature/auth/domain"
	"drifter/internal/feature/auth/transport/http/dto"
	"drifter/internal/feature/auth/usecase"
)

// AuthUsecase issues tokens.
type AuthUsecase interface {
	IssueToken(ctx context.Context, apiKey, client string) (usecase.Token, error)
}

// AuthHandler serves POST /token.
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// IssueToken exchanges an API key for a bearer token.
// 400 on a malformed body, 401 on a wrong key, 503 when issuance is disabled.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("token request validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}

	tok, err := h.auth.IssueToken(c.Request.Context(), req.APIKey, req.Client)
	switch {
	case errors.Is(err, domain.ErrInvalidAPIKey):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, domain.ErrTokensDisabled):
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: err.Error()})
		return
	case err != nil:
		slog.Error("token issuance failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
		return
	}

	slog.Info("token issued", "client", req.Client, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken: tok.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   tok.ExpiresAt,
	})
}
