package indicator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/volatiletech/null"
	"golang.org/x/sync/errgroup"

	"drifter/internal/feature/recommendation/series"
)

// Indicator computes one or more named columns from the base series.
// Compute must return exactly one column per entry in Columns.
type Indicator struct {
	Name    string
	Columns []string
	Compute func(s *series.Series) ([][]null.Float64, error)
}

// Battery returns the fixed indicator set in the order its columns are appended.
func Battery() []Indicator {
	return []Indicator{
		{
			Name:    "rsi",
			Columns: []string{"RSI"},
			Compute: func(s *series.Series) ([][]null.Float64, error) {
				return [][]null.Float64{RSI(s.Close(), 14)}, nil
			},
		},
		{
			Name:    "macd",
			Columns: []string{"MACD", "MACD_signal"},
			Compute: func(s *series.Series) ([][]null.Float64, error) {
				m, sig := MACD(s.Close(), 12, 26, 9)
				return [][]null.Float64{m, sig}, nil
			},
		},
		{
			Name:    "bollinger",
			Columns: []string{"MA_20", "STD_20", "Bollinger_upper", "Bollinger_lower"},
			Compute: func(s *series.Series) ([][]null.Float64, error) {
				mid, std, upper, lower := Bollinger(s.Close(), 20, 2)
				return [][]null.Float64{mid, std, upper, lower}, nil
			},
		},
		{
			Name:    "sma",
			Columns: []string{"SMA_50", "SMA_20"},
			Compute: func(s *series.Series) ([][]null.Float64, error) {
				return [][]null.Float64{SMA(s.Close(), 50), SMA(s.Close(), 20)}, nil
			},
		},
		{
			Name:    "ema",
			Columns: []string{"EMA_9", "EMA_21"},
			Compute: func(s *series.Series) ([][]null.Float64, error) {
				return [][]null.Float64{EMA(s.Close(), 9), EMA(s.Close(), 21)}, nil
			},
		},
		{
			Name:    "atr",
			Columns: []string{"ATR_14"},
			Compute: func(s *series.Series) ([][]null.Float64, error) {
				return [][]null.Float64{ATR(s.High(), s.Low(), s.Close(), 14)}, nil
			},
		},
		{
			Name:    "obv",
			Columns: []string{"OBV"},
			Compute: func(s *series.Series) ([][]null.Float64, error) {
				return [][]null.Float64{OBV(s.Close(), s.Volume())}, nil
			},
		},
		{
			Name:    "vwap",
			Columns: []string{"VWAP"},
			Compute: func(s *series.Series) ([][]null.Float64, error) {
				return [][]null.Float64{VWAP(s.Close(), s.Volume())}, nil
			},
		},
	}
}

// Engine runs an indicator set over a series and appends the resulting columns.
type Engine struct {
	Indicators []Indicator
	Logger     *slog.Logger

	// OnFailure is called for every indicator that failed and was replaced by nulls.
	OnFailure func(name string, err error)
}

// NewEngine returns an engine over the standard battery.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{Indicators: Battery(), Logger: logger}
}

// Apply computes every indicator over the full series and appends their columns in
// battery order. Indicators run concurrently since they only read the base columns.
// A failing indicator does not abort the others: it is logged and its columns are
// appended as all-null. Apply returns an error only when ctx is done before the battery
// has run, in which case no column is appended, or when a column cannot be appended.
func (e *Engine) Apply(ctx context.Context, s *series.Series) error {
	results := make([][][]null.Float64, len(e.Indicators))
	failures := make([]error, len(e.Indicators))

	g, gctx := errgroup.WithContext(ctx)
	for i, ind := range e.Indicators {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// indicator failures are kept per index and never cancel the others
			cols, err := run(ind, s)
			if err != nil {
				failures[i] = err
				return nil
			}
			results[i] = cols
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("indicators: %w", err)
	}

	for i, ind := range e.Indicators {
		cols := results[i]
		if err := failures[i]; err != nil {
			e.Logger.WarnContext(ctx, "indicator failed, filling with nulls", "indicator", ind.Name, "error", err)
			if e.OnFailure != nil {
				e.OnFailure(ind.Name, err)
			}
			cols = make([][]null.Float64, len(ind.Columns))
			for j := range cols {
				cols[j] = make([]null.Float64, s.Len())
			}
		}
		for j, name := range ind.Columns {
			if err := s.AppendColumn(name, cols[j]); err != nil {
				return fmt.Errorf("append %s: %w", name, err)
			}
		}
	}
	return nil
}

func run(ind Indicator, s *series.Series) (cols [][]null.Float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	cols, err = ind.Compute(s)
	if err != nil {
		return nil, err
	}
	if len(cols) != len(ind.Columns) {
		return nil, fmt.Errorf("returned %d columns, want %d", len(cols), len(ind.Columns))
	}
	for j, c := range cols {
		if len(c) != s.Len() {
			return nil, fmt.Errorf("column %s has %d rows, want %d", ind.Columns[j], len(c), s.Len())
		}
	}
	return cols, nil
}
