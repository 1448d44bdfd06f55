package di

import (
	"github.com/gin-gonic/gin"

	"drifter/internal/app/config"
	authusecase "drifter/internal/feature/auth/usecase"
	"drifter/internal/platform/apikey"
	jwtmw "drifter/internal/platform/jwt"
)

// Auth holds the credentials checks built from the auth section.
type Auth struct {
	Keys      *apikey.Verifier
	Tokens    *jwtmw.Verifier
	Generator jwtmw.Generator
	Disabled  bool
}

// NewAuth builds the API key verifier and the token signer. Each part is nil when its
// secret is not configured.
func NewAuth(cfg config.Config) (*Auth, error) {
	a := &Auth{Disabled: cfg.Auth.Disabled}

	if cfg.Auth.APIKeyHash != "" {
		keys, err := apikey.NewVerifier(cfg.Auth.APIKeyHash)
		if err != nil {
			return nil, err
		}
		a.Keys = keys
	}
	if cfg.Auth.JWTSecret != "" {
		gen, err := jwtmw.NewGenerator(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
		if err != nil {
			return nil, err
		}
		tokens, err := jwtmw.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
		if err != nil {
			return nil, err
		}
		a.Generator = gen
		a.Tokens = tokens
	}
	return a, nil
}

// Usecase returns the token issuing use case.
func (a *Auth) Usecase() *authusecase.AuthUsecase {
	var keys authusecase.KeyVerifier
	if a.Keys != nil {
		keys = a.Keys
	}
	return authusecase.NewAuthUsecase(keys, a.Generator)
}

// Middleware returns the gin middleware guarding protected routes, or nil when auth is disabled.
func (a *Auth) Middleware() gin.HandlerFunc {
	if a.Disabled {
		return nil
	}
	var keys jwtmw.KeyVerifier
	if a.Keys != nil {
		keys = a.Keys
	}
	return jwtmw.AuthRequired(a.Tokens, keys)
}
