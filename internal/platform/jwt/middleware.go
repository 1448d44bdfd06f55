package jwtmw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextSubject is the gin context key holding the authenticated subject.
const ContextSubject = "subject"

// APIKeySubject is the subject recorded for requests authenticated by API key.
const APIKeySubject = "api-key"

// KeyVerifier checks a raw API key.
type KeyVerifier interface {
	Verify(key string) bool
}

// AuthRequired accepts either "Authorization: Bearer <jwt>" or an API key in the
// X-API-Key header or the api_key query parameter. Either verifier may be nil to
// disable that method.
func AuthRequired(tokens *Verifier, keys KeyVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth := c.GetHeader("Authorization"); auth != "" {
			tokenStr, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || tokenStr == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
				return
			}
			if tokens == nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			subject, err := tokens.Verify(tokenStr)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			c.Set(ContextSubject, subject)
			c.Next()
			return
		}

		key := c.GetHeader("X-API-Key")
		if key == "" {
			key = c.Query("api_key")
		}
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing credentials"})
			return
		}
		if keys == nil || !keys.Verify(key) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
			return
		}
		c.Set(ContextSubject, APIKeySubject)
		c.Next()
	}
}
