package signal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null"

	"drifter/internal/feature/recommendation/domain"
	"drifter/internal/feature/recommendation/domain/entity"
	"drifter/internal/feature/recommendation/signal"
)

func rowOf(values map[string]null.Float64) signal.Row {
	return func(name string) (null.Float64, bool) {
		v, ok := values[name]
		return v, ok
	}
}

// neutralRow sets every input so that no factor fires.
func neutralRow() map[string]null.Float64 {
	return map[string]null.Float64{
		"RSI":             null.Float64From(50),
		"MACD":            null.Float64From(1),
		"MACD_signal":     null.Float64From(1),
		"closing_price":   null.Float64From(100),
		"Bollinger_lower": null.Float64From(90),
		"Bollinger_upper": null.Float64From(110),
		"SMA_20":          null.Float64From(100),
		"SMA_50":          null.Float64From(100),
	}
}

func TestDefaultFactors_WeightsSumToOne(t *testing.T) {
	t.Parallel()

	var sum float64
	for _, f := range signal.DefaultFactors {
		sum += f.Weight
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestScorer_FactorByFactor(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		override map[string]null.Float64
		factor   string
		want     float64
	}{
		{name: "RSI oversold buys", override: map[string]null.Float64{"RSI": null.Float64From(29.9)}, factor: "RSI", want: 0.25},
		{name: "RSI overbought sells", override: map[string]null.Float64{"RSI": null.Float64From(70.1)}, factor: "RSI", want: -0.25},
		{name: "RSI at 30 is neutral", override: map[string]null.Float64{"RSI": null.Float64From(30)}, factor: "RSI", want: 0},
		{name: "MACD above signal buys", override: map[string]null.Float64{"MACD": null.Float64From(2)}, factor: "MACD", want: 0.20},
		{name: "MACD below signal sells", override: map[string]null.Float64{"MACD": null.Float64From(0)}, factor: "MACD", want: -0.20},
		{name: "close on lower band buys", override: map[string]null.Float64{"Bollinger_lower": null.Float64From(100)}, factor: "Bollinger", want: 0.20},
		{name: "close on upper band sells", override: map[string]null.Float64{"Bollinger_upper": null.Float64From(100)}, factor: "Bollinger", want: -0.20},
		{name: "close above SMA_20 buys", override: map[string]null.Float64{"SMA_20": null.Float64From(99)}, factor: "SMA_20", want: 0.15},
		{name: "close below SMA_20 sells", override: map[string]null.Float64{"SMA_20": null.Float64From(101)}, factor: "SMA_20", want: -0.15},
		{name: "SMA_20 above SMA_50 buys", override: map[string]null.Float64{"SMA_50": null.Float64From(99)}, factor: "SMA_crossover", want: 0.20},
		{name: "SMA_20 below SMA_50 sells", override: map[string]null.Float64{"SMA_50": null.Float64From(101)}, factor: "SMA_crossover", want: -0.20},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			values := neutralRow()
			for k, v := range tc.override {
				values[k] = v
			}

			score, err := signal.NewScorer(nil).Score(rowOf(values))
			require.NoError(t, err)

			var got float64
			for _, v := range score.Votes {
				if v.Factor == tc.factor {
					got = v.Value
				}
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestScorer_AllNeutralIsZero(t *testing.T) {
	t.Parallel()

	score, err := signal.NewScorer(nil).Score(rowOf(neutralRow()))
	require.NoError(t, err)

	assert.Equal(t, 0.0, score.Value)
	assert.Len(t, score.Votes, 5)
	assert.Empty(t, score.NeutralFactors)
}

func TestScorer_NullInputsVoteNeutral(t *testing.T) {
	t.Parallel()

	values := neutralRow()
	values["RSI"] = null.Float64From(10) // would buy
	values["SMA_50"] = null.Float64{}
	values["MACD_signal"] = null.Float64{}

	score, err := signal.NewScorer(nil).Score(rowOf(values))
	require.NoError(t, err)

	assert.Equal(t, 0.25, score.Value)
	assert.Equal(t, []string{"MACD", "SMA_crossover"}, score.NeutralFactors)
}

func TestScorer_MissingColumnIsSchemaError(t *testing.T) {
	t.Parallel()

	values := neutralRow()
	delete(values, "SMA_50")

	_, err := signal.NewScorer(nil).Score(rowOf(values))
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
}

func TestScorer_ScoreAlwaysBounded(t *testing.T) {
	t.Parallel()

	levels := []null.Float64{null.Float64{}, null.Float64From(0), null.Float64From(50), null.Float64From(100), null.Float64From(200)}
	sc := signal.NewScorer(nil)

	for _, rsi := range levels {
		for _, macd := range levels {
			for _, cl := range levels {
				for _, sma := range levels {
					values := map[string]null.Float64{
						"RSI": rsi, "MACD": macd, "MACD_signal": null.Float64From(50),
						"closing_price": cl, "Bollinger_lower": null.Float64From(50), "Bollinger_upper": null.Float64From(100),
						"SMA_20": sma, "SMA_50": null.Float64From(100),
					}
					score, err := sc.Score(rowOf(values))
					require.NoError(t, err)
					assert.GreaterOrEqual(t, score.Value, -1.0)
					assert.LessOrEqual(t, score.Value, 1.0)
				}
			}
		}
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		score float64
		want  entity.Label
	}{
		{1.0, entity.LabelLong},
		{0.5, entity.LabelLong},
		{0.49, entity.LabelHold},
		{0, entity.LabelHold},
		{-0.49, entity.LabelHold},
		{-0.5, entity.LabelShort},
		{-1.0, entity.LabelShort},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, signal.Classify(tc.score), "score %v", tc.score)
	}
}

func TestMultipliers(t *testing.T) {
	t.Parallel()

	t.Run("sum to two", func(t *testing.T) {
		t.Parallel()
		for _, p := range []float64{0.005, 0.01, 0.125, 0.375, 0.5, 0.625, 1, 2.5, 12.3456, 50, 99.99} {
			tp, sl, err := signal.Multipliers(p)
			require.NoError(t, err, "p=%v", p)
			assert.InDelta(t, 2.0, tp+sl, 1e-9, "p=%v", p)
		}
	})

	t.Run("rounded to four places", func(t *testing.T) {
		t.Parallel()
		tp, sl, err := signal.Multipliers(12.34567)
		require.NoError(t, err)
		assert.Equal(t, 1.1235, tp)
		assert.Equal(t, 0.8765, sl)
	})

	t.Run("ties round half to even", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			p      float64
			tp, sl float64
		}{
			{0.005, 1, 1},
			{0.125, 1.0012, 0.9988},
			{0.375, 1.0038, 0.9962},
			{0.625, 1.0062, 0.9938},
		}
		for _, tt := range tests {
			tp, sl, err := signal.Multipliers(tt.p)
			require.NoError(t, err, "p=%v", tt.p)
			assert.Equal(t, tt.tp, tp, "p=%v", tt.p)
			assert.Equal(t, tt.sl, sl, "p=%v", tt.p)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		t.Parallel()
		for _, p := range []float64{0, -1, 100, 150} {
			_, _, err := signal.Multipliers(p)
			assert.ErrorIs(t, err, domain.ErrInvalidTradeMargin, "p=%v", p)
			assert.ErrorIs(t, err, domain.ErrValidation)
		}
	})
}

func TestSynthesize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		score     float64
		close     null.Float64
		wantLabel entity.Label
		wantTP    null.Float64
		wantSL    null.Float64
		wantLimit null.Float64
	}{
		{
			name:      "long",
			score:     0.6,
			close:     null.Float64From(200),
			wantLabel: entity.LabelLong,
			wantTP:    null.Float64From(202),
			wantSL:    null.Float64From(198),
			wantLimit: null.Float64From(199),
		},
		{
			name:      "short",
			score:     -0.65,
			close:     null.Float64From(200),
			wantLabel: entity.LabelShort,
			wantTP:    null.Float64From(198),
			wantSL:    null.Float64From(202),
			wantLimit: null.Float64From(201),
		},
		{
			name:      "hold has no prices",
			score:     0,
			close:     null.Float64From(200),
			wantLabel: entity.LabelHold,
		},
		{
			name:      "long without a close has no prices",
			score:     1,
			close:     null.Float64{},
			wantLabel: entity.LabelLong,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec, err := signal.Synthesize(tc.score, tc.close, 1)
			require.NoError(t, err)

			assert.Equal(t, tc.wantLabel, rec.Label)
			assertPrice(t, tc.wantTP, rec.TakeProfit)
			assertPrice(t, tc.wantSL, rec.StopLoss)
			assertPrice(t, tc.wantLimit, rec.LimitOrderPrice)
		})
	}
}

func TestSynthesize_InvalidMargin(t *testing.T) {
	t.Parallel()

	_, err := signal.Synthesize(0.9, null.Float64From(1), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidTradeMargin)
}

func assertPrice(t *testing.T, want, got null.Float64) {
	t.Helper()
	if !want.Valid {
		assert.False(t, got.Valid)
		return
	}
	require.True(t, got.Valid)
	assert.InDelta(t, want.Float64, got.Float64, 1e-9)
}
