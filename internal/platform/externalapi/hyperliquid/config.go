// Package hyperliquid provides a client for the Hyperliquid info API.
package hyperliquid

import "time"

// DefaultBaseURL is the public Hyperliquid API endpoint.
const DefaultBaseURL = "https://api.hyperliquid.xyz"

// Config holds configuration for the Hyperliquid API client.
type Config struct {
	BaseURL string        // Base URL for the API (e.g., "https://api.hyperliquid.xyz")
	Timeout time.Duration // HTTP request timeout
}

// DefaultConfig returns the production endpoint with a 10 second timeout.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: 10 * time.Second,
	}
}
