package usecase

import (
	"fmt"

	"drifter/internal/feature/recommendation/domain"
	"drifter/internal/feature/recommendation/domain/entity"
	"drifter/internal/feature/recommendation/series"
)

// Assemble builds the output record from the last row of s and the recommendation.
// Every output field must resolve; a missing one is a schema error.
func Assemble(s *series.Series, rec entity.Recommendation) (*entity.Record, error) {
	return assembleFields(s, rec, entity.OutputFields)
}

func assembleFields(s *series.Series, rec entity.Recommendation, fields []string) (*entity.Record, error) {
	if s.Len() == 0 {
		return nil, fmt.Errorf("%w: empty series", domain.ErrSchemaMismatch)
	}
	last := s.Len() - 1

	out := entity.NewRecord(len(fields))
	for _, name := range fields {
		switch name {
		case entity.FieldRecommendation:
			out.Set(name, string(rec.Label))
		case entity.FieldTakeProfit:
			out.Set(name, rec.TakeProfit)
		case entity.FieldStopLoss:
			out.Set(name, rec.StopLoss)
		case entity.FieldLimitOrderPrice:
			out.Set(name, rec.LimitOrderPrice)
		default:
			v, ok := s.Value(name, last)
			if !ok {
				return nil, fmt.Errorf("%w: field %q not in series", domain.ErrSchemaMismatch, name)
			}
			out.Set(name, v)
		}
	}
	return out, nil
}
