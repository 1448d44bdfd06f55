// Package apikey verifies API keys against a configured hash.
package apikey

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrNoHash is returned when no key hash is configured.
	ErrNoHash = errors.New("api key hash not configured")
	// ErrUnknownHash is returned for a hash that is neither SHA-256 hex nor bcrypt.
	ErrUnknownHash = errors.New("api key hash must be sha256 hex or bcrypt")
)

// Verifier checks keys against one stored hash.
type Verifier struct {
	sha    []byte // decoded SHA-256 digest, nil for bcrypt
	bcrypt []byte
}

// NewVerifier parses hash. A bcrypt hash starts with "$2"; anything else must be
// a 64-character SHA-256 hex digest.
func NewVerifier(hash string) (*Verifier, error) {
	hash = strings.TrimSpace(hash)
	switch {
	case hash == "":
		return nil, ErrNoHash
	case strings.HasPrefix(hash, "$2"):
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, errors.Join(ErrUnknownHash, err)
		}
		return &Verifier{bcrypt: []byte(hash)}, nil
	default:
		sum, err := hex.DecodeString(strings.ToLower(hash))
		if err != nil || len(sum) != sha256.Size {
			return nil, ErrUnknownHash
		}
		return &Verifier{sha: sum}, nil
	}
}

// Verify reports whether key matches the stored hash.
func (v *Verifier) Verify(key string) bool {
	if key == "" {
		return false
	}
	if v.bcrypt != nil {
		return bcrypt.CompareHashAndPassword(v.bcrypt, []byte(key)) == nil
	}
	sum := sha256.Sum256([]byte(key))
	return subtle.ConstantTimeCompare(sum[:], v.sha) == 1
}

// HashSHA256 returns the hex SHA-256 digest of key, the format stored in configuration.
func HashSHA256(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
