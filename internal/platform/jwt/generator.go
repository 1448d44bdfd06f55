// Package jwtmw issues and verifies the HS256 tokens that guard the API.
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSecret is returned when the signing secret is empty.
var ErrNoSecret = errors.New("jwt secret not configured")

// Generator issues signed tokens.
type Generator interface {
	// GenerateToken returns a signed token for subject and its expiry.
	GenerateToken(subject string) (string, time.Time, error)
}

type generator struct {
	secret     []byte
	issuer     string
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator creates a generator signing with secret. Tokens expire after expiration.
func NewGenerator(secret, issuer string, expiration time.Duration) (*generator, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &generator{
		secret:     []byte(secret),
		issuer:     issuer,
		expiration: expiration,
		now:        time.Now,
	}, nil
}

// GenerateToken creates a signed token with registered claims only.
func (g *generator) GenerateToken(subject string) (string, time.Time, error) {
	now := g.now()
	exp := now.Add(g.expiration)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    g.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

// Verifier validates tokens issued by a generator with the same secret and issuer.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier creates a Verifier.
func NewVerifier(secret, issuer string) (*Verifier, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Verifier{secret: []byte(secret), issuer: issuer}, nil
}

// Verify parses tokenStr and returns its subject. Only HMAC signatures are accepted.
func (v *Verifier) Verify(tokenStr string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	return claims.Subject, nil
}
