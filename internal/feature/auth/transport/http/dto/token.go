// Package dto defines the request and response bodies of the auth API.
package dto

import "time"

// TokenRequest is the body of POST /token.
type TokenRequest struct {
	APIKey string `json:"api_key" binding:"required"`
	Client string `json:"client" binding:"omitempty,max=64"`
}

// TokenResponse carries an issued token.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
