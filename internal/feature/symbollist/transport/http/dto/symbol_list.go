// Package dto defines data transfer objects for the symbollist HTTP API.
package dto

// SymbolItem is one tracked coin in the API response.
type SymbolItem struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Venue string `json:"venue"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
