// Package usecase implements exchanging an API key for a short-lived token.
package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"drifter/internal/feature/auth/domain"
)

// DefaultClient is the token subject when the caller does not name itself.
const DefaultClient = "api-key"

// KeyVerifier checks a raw API key.
type KeyVerifier interface {
	Verify(key string) bool
}

// TokenGenerator signs tokens.
type TokenGenerator interface {
	GenerateToken(subject string) (string, time.Time, error)
}

// Token is an issued access token.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// AuthUsecase issues tokens to holders of the API key.
type AuthUsecase struct {
	keys   KeyVerifier
	tokens TokenGenerator
}

// NewAuthUsecase creates an AuthUsecase. A nil tokens disables issuance.
func NewAuthUsecase(keys KeyVerifier, tokens TokenGenerator) *AuthUsecase {
	return &AuthUsecase{keys: keys, tokens: tokens}
}

// IssueToken verifies apiKey and returns a token whose subject is client.
func (u *AuthUsecase) IssueToken(ctx context.Context, apiKey, client string) (Token, error) {
	if u.tokens == nil {
		return Token{}, domain.ErrTokensDisabled
	}
	if u.keys == nil || !u.keys.Verify(apiKey) {
		slog.WarnContext(ctx, "token request with invalid api key", "client", client)
		return Token{}, domain.ErrInvalidAPIKey
	}

	client = strings.TrimSpace(client)
	if client == "" {
		client = DefaultClient
	}
	signed, exp, err := u.tokens.GenerateToken(client)
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: signed, ExpiresAt: exp}, nil
}
