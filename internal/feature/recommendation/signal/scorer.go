package signal

import (
	"fmt"

	"github.com/volatiletech/null"

	"drifter/internal/feature/recommendation/domain"
)

// Row looks up a named value of the row being scored.
// It reports false when the column does not exist at all.
type Row func(name string) (null.Float64, bool)

// Vote is the contribution of one factor.
type Vote struct {
	Factor string  `json:"factor"`
	Value  float64 `json:"value"`
}

// Score is the weighted sum of the factor votes.
type Score struct {
	Value float64
	Votes []Vote
	// NeutralFactors lists the factors that voted 0 because an input was null.
	NeutralFactors []string
}

// Scorer reduces a row to a Score using a factor table.
type Scorer struct {
	factors []Factor
}

// NewScorer returns a scorer over factors, or DefaultFactors when none are given.
func NewScorer(factors []Factor) *Scorer {
	if len(factors) == 0 {
		factors = DefaultFactors
	}
	return &Scorer{factors: factors}
}

// Score evaluates every factor against row in table order. A factor with a null input
// votes 0. A missing column is a schema error.
func (sc *Scorer) Score(row Row) (Score, error) {
	out := Score{Votes: make([]Vote, 0, len(sc.factors))}

	for _, f := range sc.factors {
		vals := make([]float64, len(f.Inputs))
		neutral := false
		for i, name := range f.Inputs {
			v, ok := row(name)
			if !ok {
				return Score{}, fmt.Errorf("%w: factor %s needs column %s", domain.ErrSchemaMismatch, f.Name, name)
			}
			if !v.Valid {
				neutral = true
				continue
			}
			vals[i] = v.Float64
		}

		var vote float64
		switch {
		case neutral:
			out.NeutralFactors = append(out.NeutralFactors, f.Name)
		case f.Buy(vals):
			vote = f.Weight
		case f.Sell(vals):
			vote = -f.Weight
		}
		out.Votes = append(out.Votes, Vote{Factor: f.Name, Value: vote})
		out.Value += vote
	}
	return out, nil
}
