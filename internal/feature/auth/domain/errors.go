// Package domain defines domain-level errors for the auth feature.
package domain

import "errors"

var (
	// ErrInvalidAPIKey is returned when the presented API key does not match the configured hash.
	ErrInvalidAPIKey = errors.New("invalid api key")
	// ErrTokensDisabled is returned when no signing secret is configured.
	ErrTokensDisabled = errors.New("token issuance disabled")
)
