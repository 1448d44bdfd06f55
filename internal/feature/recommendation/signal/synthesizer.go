package signal

import (
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null"

	"drifter/internal/feature/recommendation/domain"
	"drifter/internal/feature/recommendation/domain/entity"
)

const (
	longThreshold  = 0.5
	shortThreshold = -0.5

	longLimitFactor  = 0.995
	shortLimitFactor = 1.005
)

var hundred = decimal.NewFromInt(100)

// Classify maps a score to a label.
func Classify(score float64) entity.Label {
	switch {
	case score >= longThreshold:
		return entity.LabelLong
	case score <= shortThreshold:
		return entity.LabelShort
	default:
		return entity.LabelHold
	}
}

// Multipliers returns the take-profit and stop-loss multipliers for a margin of p percent,
// rounded half to even at 4 decimal places. p must lie strictly between 0 and 100.
// On a tie the two multipliers round in opposite directions, so tp+sl is always 2.
func Multipliers(p float64) (tp, sl float64, err error) {
	if !(p > 0 && p < 100) {
		return 0, 0, domain.ErrInvalidTradeMargin
	}
	frac := decimal.NewFromFloat(p).Div(hundred)
	tp = decimal.NewFromInt(1).Add(frac).RoundBank(4).InexactFloat64()
	sl = decimal.NewFromInt(1).Sub(frac).RoundBank(4).InexactFloat64()
	return tp, sl, nil
}

// Synthesize labels score and derives the price levels from the last close.
// HOLD, or a missing close, leaves all three levels null.
func Synthesize(score float64, lastClose null.Float64, margin float64) (entity.Recommendation, error) {
	tp, sl, err := Multipliers(margin)
	if err != nil {
		return entity.Recommendation{}, err
	}

	rec := entity.Recommendation{Label: Classify(score), Score: score}
	if !lastClose.Valid {
		return rec, nil
	}

	c := lastClose.Float64
	switch rec.Label {
	case entity.LabelLong:
		rec.TakeProfit = null.Float64From(c * tp)
		rec.StopLoss = null.Float64From(c * sl)
		rec.LimitOrderPrice = null.Float64From(c * longLimitFactor)
	case entity.LabelShort:
		rec.TakeProfit = null.Float64From(c * sl)
		rec.StopLoss = null.Float64From(c * tp)
		rec.LimitOrderPrice = null.Float64From(c * shortLimitFactor)
	}
	return rec, nil
}
