package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/volatiletech/null"

	candle "drifter/internal/feature/candles/domain/entity"
	"drifter/internal/feature/recommendation/domain/entity"
	"drifter/internal/feature/recommendation/indicator"
	"drifter/internal/feature/recommendation/series"
	"drifter/internal/feature/recommendation/signal"
)

// Outcome is everything the pipeline derives from one candle set.
type Outcome struct {
	Record         *entity.Record
	Recommendation entity.Recommendation
	Score          signal.Score
	MissingMinutes int
}

// Pipeline is the deterministic part of a recommendation: align, compute, score,
// synthesize and assemble. It has no clock and no I/O.
type Pipeline struct {
	Engine   *indicator.Engine
	Scorer   *signal.Scorer
	Location *time.Location
}

// NewPipeline returns a pipeline with the standard battery and factor table.
func NewPipeline(engine *indicator.Engine, loc *time.Location) *Pipeline {
	if engine == nil {
		engine = indicator.NewEngine(nil)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Pipeline{Engine: engine, Scorer: signal.NewScorer(nil), Location: loc}
}

// Run turns the candles of window w into a recommendation record.
func (p *Pipeline) Run(ctx context.Context, w series.Window, candles []candle.Candle, margin float64) (*Outcome, error) {
	// Margin is validated before any computation.
	if _, _, err := signal.Multipliers(margin); err != nil {
		return nil, err
	}

	s := series.Align(w, candles, p.Location)
	if err := p.Engine.Apply(ctx, s); err != nil {
		return nil, fmt.Errorf("compute indicators: %w", err)
	}

	last := s.Len() - 1
	score, err := p.Scorer.Score(func(name string) (null.Float64, bool) {
		return s.Float(name, last)
	})
	if err != nil {
		return nil, err
	}

	lastClose, _ := s.Float(series.ColClose, last)
	rec, err := signal.Synthesize(score.Value, lastClose, margin)
	if err != nil {
		return nil, err
	}

	record, err := Assemble(s, rec)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Record:         record,
		Recommendation: rec,
		Score:          score,
		MissingMinutes: s.Missing(),
	}, nil
}
