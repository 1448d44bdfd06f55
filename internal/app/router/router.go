// Package router builds the gin engine and its routes.
package router

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	authhandler "drifter/internal/feature/auth/transport/handler"
	candleshandler "drifter/internal/feature/candles/transport/handler"
	recommendationhandler "drifter/internal/feature/recommendation/transport/handler"
	symbollisthandler "drifter/internal/feature/symbollist/transport/handler"
	platformhandler "drifter/internal/platform/http/handler"
	"drifter/internal/platform/metrics"
)

// Handlers are the feature handlers mounted by NewRouter.
// Candles is nil when no archive database is configured.
type Handlers struct {
	Auth           *authhandler.AuthHandler
	Recommendation *recommendationhandler.RecommendationHandler
	Candles        *candleshandler.CandlesHandler
	Symbols        *symbollisthandler.SymbolHandler
	Ready          map[string]platformhandler.Check
}

// NewRouter returns the engine. auth guards the data routes; nil leaves them open.
// m may be nil, in which case /metrics is not served.
func NewRouter(h Handlers, auth gin.HandlerFunc, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(m))

	// no auth
	r.GET("/healthz", platformhandler.Health)
	r.HEAD("/healthz", platformhandler.Health)
	r.GET("/readyz", platformhandler.Ready(h.Ready))
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}
	r.POST("/token", h.Auth.IssueToken)

	api := r.Group("/")
	if auth != nil {
		api.Use(auth)
	}
	{
		api.GET("/recommendation", h.Recommendation.GetRecommendation)
		api.GET("/symbols", h.Symbols.List)
		if h.Candles != nil {
			api.GET("/candles/:coin", h.Candles.GetCandlesHandler)
		}
	}

	return r
}

// requestLogger logs each request and records it in m when m is non-nil.
func requestLogger(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		if m != nil {
			m.ObserveHTTP(route, strconv.Itoa(status), elapsed)
		}

		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		}
		slog.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration", elapsed,
			"client_ip", c.ClientIP(),
		)
	}
}
