package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"drifter/internal/app/config"
	"drifter/internal/app/di"
	candlesusecase "drifter/internal/feature/candles/usecase"
	symbollistusecase "drifter/internal/feature/symbollist/usecase"
	"drifter/internal/platform/logger"
)

// runTimeout bounds one ingest pass.
const runTimeout = 5 * time.Minute

func main() {
	if err := run(); err != nil {
		slog.Error("ingest failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("DRIFTER_CONFIG_FILE"))
	if err != nil {
		return err
	}
	log := logger.Init("drifter-ingest", logger.Config{Format: cfg.Log.Format, Level: cfg.Log.Level})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.DB.Enabled() {
		return errors.New("ingest needs a database: set db.driver")
	}
	db, err := di.OpenDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	rdb := di.OpenRedis(ctx, cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	// the archive writes must reach upstream, so the market is never cached here
	market, err := di.NewMarket(cfg, nil)
	if err != nil {
		return err
	}
	uc := candlesusecase.NewIngestUsecase(market, di.NewCandleArchive(cfg, db, rdb), di.NewRateLimiter(cfg),
		candlesusecase.WithIntervals(cfg.Ingest.Intervals...),
		candlesusecase.WithLookBack(cfg.Ingest.LookBack),
	)
	symbols := symbollistusecase.NewSymbolUsecase(di.NewSymbolRepository(cfg, db))

	pass := func() error {
		ctx, cancel := context.WithTimeout(ctx, runTimeout)
		defer cancel()

		coins, err := symbols.ListActiveCodes(ctx)
		if err != nil {
			return fmt.Errorf("load symbols: %w", err)
		}
		if err := uc.IngestAll(ctx, coins); err != nil {
			return err
		}
		log.Info("ingest ok", "coins", len(coins))
		return nil
	}

	if cfg.Ingest.Schedule == "" {
		return pass()
	}

	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(log.Handler(), slog.LevelDebug))))
	_, err = c.AddFunc(cfg.Ingest.Schedule, func() {
		if err := pass(); err != nil {
			log.Error("ingest pass failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("ingest.schedule: %w", err)
	}
	log.Info("ingest scheduled", "schedule", cfg.Ingest.Schedule)
	c.Start()

	<-ctx.Done()
	log.Info("stopping scheduler")
	<-c.Stop().Done()
	return nil
}
