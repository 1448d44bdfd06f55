package series

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/volatiletech/null"

	"drifter/internal/feature/candles/domain/entity"
)

// Base column names, as they appear in the output record.
const (
	ColTS         = "ts"
	ColStartTime  = "start_time"
	ColEndTime    = "end_time"
	ColStartEpoch = "start_epoch"
	ColEndEpoch   = "end_epoch"
	ColSymbol     = "symbol"
	ColInterval   = "interval"
	ColOpen       = "opening_price"
	ColClose      = "closing_price"
	ColHigh       = "highest_price"
	ColLow        = "lowest_price"
	ColVolume     = "volume_traded"
	ColTradeCount = "trade_count"
)

var (
	// ErrColumnLength is returned when an appended column does not have one value per row.
	ErrColumnLength = errors.New("column length does not match series length")
	// ErrDuplicateColumn is returned when a column name is already taken.
	ErrDuplicateColumn = errors.New("column already exists")
)

// Series is a columnar, minute-indexed frame. Each field lives in its own slice and
// every slice has one entry per minute of the window. Base columns are filled by Align;
// derived columns are appended afterwards and never restructured.
type Series struct {
	ts         []time.Time
	startTime  []null.Time
	endTime    []null.Time
	startEpoch []null.Int64
	endEpoch   []null.Int64
	symbol     []null.String
	interval   []null.String
	open       []null.Float64
	close      []null.Float64
	high       []null.Float64
	low        []null.Float64
	volume     []null.Float64
	tradeCount []null.Int64

	derived map[string][]null.Float64
	order   []string
	loc     *time.Location
}

func newSeries(n int, loc *time.Location) *Series {
	if loc == nil {
		loc = time.UTC
	}
	return &Series{
		ts:         make([]time.Time, n),
		startTime:  make([]null.Time, n),
		endTime:    make([]null.Time, n),
		startEpoch: make([]null.Int64, n),
		endEpoch:   make([]null.Int64, n),
		symbol:     make([]null.String, n),
		interval:   make([]null.String, n),
		open:       make([]null.Float64, n),
		close:      make([]null.Float64, n),
		high:       make([]null.Float64, n),
		low:        make([]null.Float64, n),
		volume:     make([]null.Float64, n),
		tradeCount: make([]null.Int64, n),
		derived:    make(map[string][]null.Float64),
		loc:        loc,
	}
}

// Align lays candles onto the minute grid of w. Rows without a candle stay null.
// Candles outside the window are ignored; if two candles share a minute the later one wins.
func Align(w Window, candles []entity.Candle, loc *time.Location) *Series {
	minutes := w.Minutes()
	s := newSeries(len(minutes), loc)

	idx := make(map[int64]int, len(minutes))
	for i, m := range minutes {
		s.ts[i] = m
		idx[m.Unix()] = i
	}

	for _, c := range candles {
		bucket := c.Time.UTC().Truncate(time.Minute)
		i, ok := idx[bucket.Unix()]
		if !ok {
			continue
		}
		s.set(i, c)
	}
	return s
}

func (s *Series) set(i int, c entity.Candle) {
	s.startTime[i] = null.TimeFrom(c.StartTime)
	s.endTime[i] = null.TimeFrom(c.EndTime)
	s.startEpoch[i] = null.Int64From(c.StartEpoch)
	s.endEpoch[i] = null.Int64From(c.EndEpoch)
	s.symbol[i] = null.StringFrom(c.Symbol)
	s.interval[i] = null.StringFrom(c.Interval)
	s.open[i] = null.Float64From(c.Open)
	s.close[i] = null.Float64From(c.Close)
	s.high[i] = null.Float64From(c.High)
	s.low[i] = null.Float64From(c.Low)
	s.volume[i] = null.Float64From(c.Volume)
	s.tradeCount[i] = null.Int64From(c.TradeCount)
}

// Len returns the number of rows.
func (s *Series) Len() int { return len(s.ts) }

// Times returns the minute keys in order.
func (s *Series) Times() []time.Time { return s.ts }

// Location is the display zone used for timestamps.
func (s *Series) Location() *time.Location { return s.loc }

// Missing counts the rows that received no candle.
func (s *Series) Missing() int {
	n := 0
	for _, v := range s.close {
		if !v.Valid {
			n++
		}
	}
	return n
}

// The price accessors expose the base columns read-only by convention.
func (s *Series) Open() []null.Float64   { return s.open }
func (s *Series) Close() []null.Float64  { return s.close }
func (s *Series) High() []null.Float64   { return s.high }
func (s *Series) Low() []null.Float64    { return s.low }
func (s *Series) Volume() []null.Float64 { return s.volume }

// AppendColumn adds a derived column. NaN and infinite values are stored as null.
func (s *Series) AppendColumn(name string, values []null.Float64) error {
	if len(values) != s.Len() {
		return fmt.Errorf("%w: %s has %d values, want %d", ErrColumnLength, name, len(values), s.Len())
	}
	if _, ok := s.derived[name]; ok || s.isBase(name) {
		return fmt.Errorf("%w: %s", ErrDuplicateColumn, name)
	}
	col := make([]null.Float64, len(values))
	for i, v := range values {
		if v.Valid && !math.IsNaN(v.Float64) && !math.IsInf(v.Float64, 0) {
			col[i] = v
		}
	}
	s.derived[name] = col
	s.order = append(s.order, name)
	return nil
}

// Column returns a derived column by name.
func (s *Series) Column(name string) ([]null.Float64, bool) {
	col, ok := s.derived[name]
	return col, ok
}

// ColumnNames returns the derived column names in append order.
func (s *Series) ColumnNames() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Series) isBase(name string) bool {
	switch name {
	case ColTS, ColStartTime, ColEndTime, ColStartEpoch, ColEndEpoch, ColSymbol, ColInterval,
		ColOpen, ColClose, ColHigh, ColLow, ColVolume, ColTradeCount:
		return true
	}
	return false
}

// Float returns a numeric column value at row i. Both price columns and derived columns
// are addressable.
func (s *Series) Float(name string, i int) (null.Float64, bool) {
	if i < 0 || i >= s.Len() {
		return null.Float64{}, false
	}
	switch name {
	case ColOpen:
		return s.open[i], true
	case ColClose:
		return s.close[i], true
	case ColHigh:
		return s.high[i], true
	case ColLow:
		return s.low[i], true
	case ColVolume:
		return s.volume[i], true
	}
	col, ok := s.derived[name]
	if !ok {
		return null.Float64{}, false
	}
	return col[i], true
}

// Value returns the output representation of column name at row i. Timestamps are
// rendered in the series location. It reports false for unknown columns.
func (s *Series) Value(name string, i int) (any, bool) {
	if i < 0 || i >= s.Len() {
		return nil, false
	}
	switch name {
	case ColTS:
		return FormatMinute(s.ts[i], s.loc), true
	case ColStartTime:
		return formatNullTime(s.startTime[i], s.loc), true
	case ColEndTime:
		return formatNullTime(s.endTime[i], s.loc), true
	case ColStartEpoch:
		return s.startEpoch[i], true
	case ColEndEpoch:
		return s.endEpoch[i], true
	case ColSymbol:
		return s.symbol[i], true
	case ColInterval:
		return s.interval[i], true
	case ColTradeCount:
		return s.tradeCount[i], true
	}
	return s.Float(name, i)
}

// FormatMinute renders a minute key as "2006-01-02 15:04:00".
func FormatMinute(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02 15:04") + ":00"
}

// FormatMicro renders t as "2006-01-02 15:04:05:ffffff".
func FormatMicro(t time.Time, loc *time.Location) string {
	t = t.In(loc)
	return t.Format("2006-01-02 15:04:05") + fmt.Sprintf(":%06d", t.Nanosecond()/1000)
}

func formatNullTime(v null.Time, loc *time.Location) null.String {
	if !v.Valid {
		return null.String{}
	}
	return null.StringFrom(FormatMicro(v.Time, loc))
}
