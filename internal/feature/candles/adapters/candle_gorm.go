// Package adapters implements the candle archive on gorm.
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"drifter/internal/feature/candles/domain/entity"
	"drifter/internal/feature/candles/usecase"
)

type candleGorm struct {
	db *gorm.DB
}

var _ usecase.CandleRepository = (*candleGorm)(nil)

// NewCandleRepository returns a gorm-backed candle archive.
func NewCandleRepository(db *gorm.DB) *candleGorm {
	return &candleGorm{db: db}
}

// CandleModel is one archived candle. A candle is identified by its coin, interval and start epoch.
type CandleModel struct {
	ID         uint      `gorm:"primaryKey"`
	Symbol     string    `gorm:"size:32;not null;uniqueIndex:candle_sym_int_start,priority:1"`
	Interval   string    `gorm:"size:8;not null;uniqueIndex:candle_sym_int_start,priority:2"`
	StartEpoch int64     `gorm:"not null;uniqueIndex:candle_sym_int_start,priority:3"`
	EndEpoch   int64     `gorm:"not null"`
	StartTime  time.Time `gorm:"not null"`
	EndTime    time.Time `gorm:"not null"`

	Open       float64 `gorm:"not null"`
	High       float64 `gorm:"not null"`
	Low        float64 `gorm:"not null"`
	Close      float64 `gorm:"not null"`
	Volume     float64 `gorm:"not null;default:0"`
	TradeCount int64   `gorm:"not null;default:0"`
}

func (CandleModel) TableName() string {
	return "candles"
}

func toModel(e entity.Candle) CandleModel {
	return CandleModel{
		Symbol:     e.Symbol,
		Interval:   e.Interval,
		StartEpoch: e.StartEpoch,
		EndEpoch:   e.EndEpoch,
		StartTime:  e.StartTime.UTC(),
		EndTime:    e.EndTime.UTC(),
		Open:       e.Open,
		High:       e.High,
		Low:        e.Low,
		Close:      e.Close,
		Volume:     e.Volume,
		TradeCount: e.TradeCount,
	}
}

func toEntity(m CandleModel) entity.Candle {
	c := entity.Candle{
		Symbol:     m.Symbol,
		Interval:   m.Interval,
		Open:       m.Open,
		High:       m.High,
		Low:        m.Low,
		Close:      m.Close,
		Volume:     m.Volume,
		TradeCount: m.TradeCount,
	}
	c.FromEpochs(m.StartEpoch, m.EndEpoch)
	return c
}

// UpsertBatch inserts candles, overwriting prices of candles already archived.
func (r *candleGorm) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	ms := make([]CandleModel, 0, len(candles))
	for _, e := range candles {
		ms = append(ms, toModel(e))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "interval"}, {Name: "start_epoch"}},
		DoUpdates: clause.AssignmentColumns([]string{"end_epoch", "end_time", "open", "high", "low", "close", "volume", "trade_count"}),
	}).CreateInBatches(&ms, 500).Error
}

// Find returns up to limit candles, newest first. A non-positive limit returns all of them.
func (r *candleGorm) Find(ctx context.Context, symbol, interval string, limit int) ([]entity.Candle, error) {
	var rows []CandleModel
	q := r.db.WithContext(ctx).
		Where(&CandleModel{Symbol: symbol, Interval: interval}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "start_epoch"}, Desc: true})
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Candle, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}
