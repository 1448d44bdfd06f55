package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"

	"drifter/internal/app/config"
	"drifter/internal/app/di"
	"drifter/internal/app/router"
	authhandler "drifter/internal/feature/auth/transport/handler"
	candleshandler "drifter/internal/feature/candles/transport/handler"
	candlesusecase "drifter/internal/feature/candles/usecase"
	recommendationhandler "drifter/internal/feature/recommendation/transport/handler"
	symbollisthandler "drifter/internal/feature/symbollist/transport/handler"
	symbollistusecase "drifter/internal/feature/symbollist/usecase"
	platformhandler "drifter/internal/platform/http/handler"
	"drifter/internal/platform/logger"
	"drifter/internal/platform/metrics"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("DRIFTER_CONFIG_FILE"))
	if err != nil {
		return err
	}
	if err := cfg.ValidateAuth(); err != nil {
		return err
	}
	log := logger.Init("drifter-api", logger.Config{Format: cfg.Log.Format, Level: cfg.Log.Level})
	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis is optional
	rdb := di.OpenRedis(ctx, cfg)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error("failed to close redis client", "error", err)
			}
		}()
	}

	// db is optional; without it the archive and /candles are off
	db, err := di.OpenDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	ready := map[string]platformhandler.Check{}
	if rdb != nil {
		ready["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		ready["db"] = sqlDB.PingContext
	}

	m := metrics.NewMetrics()

	// Repository
	market, err := di.NewMarket(cfg, rdb)
	if err != nil {
		return err
	}
	archive := di.NewCandleArchive(cfg, db, rdb)
	symbolRepo := di.NewSymbolRepository(cfg, db)

	// Usecase
	recommendUC, err := di.NewRecommendUsecase(cfg, market, archive, m, log)
	if err != nil {
		return err
	}
	auth, err := di.NewAuth(cfg)
	if err != nil {
		return err
	}
	if !cfg.Auth.Disabled && auth.Tokens == nil {
		log.Warn("auth.jwt_secret is not set; only API keys are accepted")
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// Handler
	handlers := router.Handlers{
		Auth:           authhandler.NewAuthHandler(auth.Usecase()),
		Recommendation: recommendationhandler.NewRecommendationHandler(recommendUC, loc),
		Symbols:        symbollisthandler.NewSymbolHandler(symbollistusecase.NewSymbolUsecase(symbolRepo)),
		Ready:          ready,
	}
	if archive != nil {
		handlers.Candles = candleshandler.NewCandlesHandler(candlesusecase.NewCandlesUsecase(archive))
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router.NewRouter(handlers, auth.Middleware(), m),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Server.Addr, "market", cfg.Market.Source)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
