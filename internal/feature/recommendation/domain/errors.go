// Package domain defines domain-level errors for the recommendation feature.
package domain

import (
	"errors"
	"fmt"
)

// ErrValidation is the parent of every input validation error.
// Validation errors are raised before any candle is fetched.
var ErrValidation = errors.New("validation error")

var (
	// ErrInvalidLookBack indicates a look-back that is not a positive number of minutes
	// or exceeds the configured maximum.
	ErrInvalidLookBack = fmt.Errorf("%w: invalid look-back", ErrValidation)

	// ErrInvalidTradeMargin indicates a trade margin outside the open interval (0, 100).
	ErrInvalidTradeMargin = fmt.Errorf("%w: trade margin must be between 0 and 100", ErrValidation)

	// ErrInvalidAsOf indicates a missing or unparsable as-of instant.
	ErrInvalidAsOf = fmt.Errorf("%w: invalid as-of instant", ErrValidation)

	// ErrInvalidInterval indicates an interval code the candle sources do not serve.
	ErrInvalidInterval = fmt.Errorf("%w: invalid interval, choose from 1m, 15m, 1h", ErrValidation)

	// ErrInvalidCoin indicates an empty coin identifier.
	ErrInvalidCoin = fmt.Errorf("%w: coin is required", ErrValidation)
)

var (
	// ErrUpstream indicates that candles could not be fetched from the market data source.
	// It is retryable by the caller.
	ErrUpstream = errors.New("upstream market data error")

	// ErrSchemaMismatch indicates that a field of the output record is missing from the
	// computed series. It always points at a computation bug.
	ErrSchemaMismatch = errors.New("schema mismatch")
)
