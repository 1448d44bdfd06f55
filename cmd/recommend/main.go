package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/urfave/cli/v2"

	"drifter/internal/app/config"
	"drifter/internal/app/di"
	"drifter/internal/feature/recommendation/usecase"
	"drifter/internal/platform/logger"
)

func main() {
	app := &cli.App{
		Name:  "recommend",
		Usage: "compute one trading recommendation from recent candles",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to a YAML config file", EnvVars: []string{"DRIFTER_CONFIG_FILE"}},
			&cli.StringFlag{Name: "coin", Value: "BTC", Usage: "coin symbol"},
			&cli.StringFlag{Name: "interval", Value: "1m", Usage: "candle interval: 1m, 15m or 1h"},
			&cli.IntFlag{Name: "look-back", Value: usecase.DefaultLookBack, Usage: "minutes of history to analyse"},
			&cli.Float64Flag{Name: "margin", Value: usecase.DefaultTradeMargin, Usage: "take-profit and stop-loss margin in percent"},
			&cli.TimestampFlag{Name: "as-of", Layout: time.RFC3339, Usage: "evaluate as of this RFC 3339 instant instead of now"},
			&cli.BoolFlag{Name: "signal", Usage: "also print the score, votes and quality flags"},
		},
		Action: recommend,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "recommend:", err)
		stop()
		os.Exit(1)
	}
}

func recommend(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	log := logger.New(os.Stderr, "drifter-cli", logger.Config{Format: "text", Level: cfg.Log.Level})
	slog.SetDefault(log)

	market, err := di.NewMarket(cfg, nil)
	if err != nil {
		return err
	}
	uc, err := di.NewRecommendUsecase(cfg, market, nil, nil, log)
	if err != nil {
		return err
	}

	asOf := time.Now()
	if ts := c.Timestamp("as-of"); ts != nil {
		asOf = *ts
	}

	res, err := uc.Recommend(c.Context, usecase.Request{
		Coin:        c.String("coin"),
		Interval:    c.String("interval"),
		LookBack:    c.Int("look-back"),
		TradeMargin: c.Float64("margin"),
		AsOf:        asOf,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	if !c.Bool("signal") {
		return enc.Encode(res.Record)
	}
	return enc.Encode(struct {
		Record         any      `json:"record"`
		Score          float64  `json:"score"`
		NeutralFactors []string `json:"neutral_factors"`
		MissingMinutes int      `json:"missing_minutes"`
	}{res.Record, res.Score.Value, res.Score.NeutralFactors, res.MissingMinutes})
}
