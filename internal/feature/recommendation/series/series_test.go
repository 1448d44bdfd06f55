package series_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null"

	"drifter/internal/feature/candles/domain/entity"
	"drifter/internal/feature/recommendation/domain"
	"drifter/internal/feature/recommendation/series"
)

func candleAt(t time.Time, close float64) entity.Candle {
	c := entity.Candle{
		Symbol:     "BTC",
		Interval:   "1m",
		Open:       close - 1,
		High:       close + 2,
		Low:        close - 2,
		Close:      close,
		Volume:     10,
		TradeCount: 3,
	}
	c.FromEpochs(t.UnixMilli(), t.Add(time.Minute-time.Millisecond).UnixMilli())
	return c
}

func TestNewWindow(t *testing.T) {
	t.Parallel()

	asOf := time.Date(2025, 3, 10, 12, 30, 45, 123, time.UTC)

	testCases := []struct {
		name      string
		asOf      time.Time
		lookBack  int
		wantStart time.Time
		wantEnd   time.Time
		wantErr   error
	}{
		{
			name:      "success: three minutes",
			asOf:      asOf,
			lookBack:  3,
			wantStart: time.Date(2025, 3, 10, 12, 27, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 10, 12, 29, 0, 0, time.UTC),
		},
		{
			name:      "success: single minute",
			asOf:      asOf,
			lookBack:  1,
			wantStart: time.Date(2025, 3, 10, 12, 29, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 10, 12, 29, 0, 0, time.UTC),
		},
		{
			name:      "success: as-of exactly on a minute boundary",
			asOf:      time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC),
			lookBack:  2,
			wantStart: time.Date(2025, 3, 10, 12, 28, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 10, 12, 29, 0, 0, time.UTC),
		},
		{name: "error: zero look-back", asOf: asOf, lookBack: 0, wantErr: domain.ErrInvalidLookBack},
		{name: "error: negative look-back", asOf: asOf, lookBack: -5, wantErr: domain.ErrInvalidLookBack},
		{name: "error: zero as-of", asOf: time.Time{}, lookBack: 5, wantErr: domain.ErrInvalidAsOf},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			w, err := series.NewWindow(tc.asOf, tc.lookBack)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.True(t, errors.Is(err, domain.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantStart, w.Start)
			assert.Equal(t, tc.wantEnd, w.End)
			assert.Len(t, w.Minutes(), tc.lookBack)
		})
	}
}

func TestWindow_Epochs(t *testing.T) {
	t.Parallel()

	w, err := series.NewWindow(time.Date(2025, 1, 1, 0, 10, 30, 0, time.UTC), 5)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 1, 1, 0, 5, 0, 0, time.UTC).UnixMilli(), w.StartEpochMs())
	assert.Equal(t, time.Date(2025, 1, 1, 0, 9, 59, 999_000_000, time.UTC).UnixMilli(), w.EndEpochMs())
}

func TestAlign_ExactlyLookBackRows(t *testing.T) {
	t.Parallel()

	for _, lookBack := range []int{1, 2, 14, 60, 180} {
		w, err := series.NewWindow(time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC), lookBack)
		require.NoError(t, err)

		s := series.Align(w, nil, time.UTC)
		require.Equal(t, lookBack, s.Len())
		assert.Equal(t, lookBack, s.Missing())

		ts := s.Times()
		for i := 1; i < len(ts); i++ {
			assert.Equal(t, time.Minute, ts[i].Sub(ts[i-1]), "rows must be minute-spaced")
		}
		assert.Equal(t, w.Start, ts[0])
		assert.Equal(t, w.End, ts[len(ts)-1])
	}
}

func TestAlign_MergesByMinute(t *testing.T) {
	t.Parallel()

	w, err := series.NewWindow(time.Date(2025, 5, 1, 8, 5, 0, 0, time.UTC), 5)
	require.NoError(t, err)

	candles := []entity.Candle{
		candleAt(w.Start, 100),
		candleAt(w.Start.Add(1*time.Minute), 101),
		// minute 2 is missing
		candleAt(w.Start.Add(3*time.Minute), 103),
		candleAt(w.Start.Add(4*time.Minute), 104),
		// outside the window on both sides
		candleAt(w.Start.Add(-time.Minute), 1),
		candleAt(w.End.Add(time.Minute), 1),
	}

	s := series.Align(w, candles, time.UTC)

	require.Equal(t, 5, s.Len())
	assert.Equal(t, 1, s.Missing())
	closes := s.Close()
	assert.Equal(t, null.Float64From(100), closes[0])
	assert.Equal(t, null.Float64From(101), closes[1])
	assert.False(t, closes[2].Valid)
	assert.Equal(t, null.Float64From(103), closes[3])
	assert.Equal(t, null.Float64From(104), closes[4])

	sym, ok := s.Value(series.ColSymbol, 2)
	require.True(t, ok)
	assert.Equal(t, null.String{}, sym)
}

func TestAlign_LaterDuplicateWins(t *testing.T) {
	t.Parallel()

	w, err := series.NewWindow(time.Date(2025, 5, 1, 8, 2, 0, 0, time.UTC), 2)
	require.NoError(t, err)

	s := series.Align(w, []entity.Candle{candleAt(w.End, 1), candleAt(w.End, 2)}, time.UTC)

	assert.Equal(t, null.Float64From(2), s.Close()[1])
}

func TestSeries_AppendColumn(t *testing.T) {
	t.Parallel()

	w, err := series.NewWindow(time.Date(2025, 5, 1, 8, 3, 0, 0, time.UTC), 3)
	require.NoError(t, err)
	s := series.Align(w, nil, time.UTC)

	require.NoError(t, s.AppendColumn("X", []null.Float64{null.Float64From(1), null.Float64From(math.NaN()), null.Float64From(math.Inf(1))}))

	col, ok := s.Column("X")
	require.True(t, ok)
	assert.Equal(t, null.Float64From(1), col[0])
	assert.False(t, col[1].Valid, "NaN is stored as null")
	assert.False(t, col[2].Valid, "Inf is stored as null")

	assert.ErrorIs(t, s.AppendColumn("X", make([]null.Float64, 3)), series.ErrDuplicateColumn)
	assert.ErrorIs(t, s.AppendColumn(series.ColClose, make([]null.Float64, 3)), series.ErrDuplicateColumn)
	assert.ErrorIs(t, s.AppendColumn("Y", make([]null.Float64, 2)), series.ErrColumnLength)
	assert.Equal(t, []string{"X"}, s.ColumnNames())
}

func TestSeries_ValueFormatting(t *testing.T) {
	t.Parallel()

	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	w, err := series.NewWindow(time.Date(2025, 5, 1, 8, 1, 0, 0, time.UTC), 1)
	require.NoError(t, err)

	c := candleAt(w.Start, 50)
	c.FromEpochs(w.Start.UnixMilli()+123, w.Start.Add(59*time.Second).UnixMilli()+999)
	s := series.Align(w, []entity.Candle{c}, kolkata)

	ts, ok := s.Value(series.ColTS, 0)
	require.True(t, ok)
	assert.Equal(t, "2025-05-01 13:30:00", ts)

	start, ok := s.Value(series.ColStartTime, 0)
	require.True(t, ok)
	assert.Equal(t, null.StringFrom("2025-05-01 13:30:00:123000"), start)

	end, ok := s.Value(series.ColEndTime, 0)
	require.True(t, ok)
	assert.Equal(t, null.StringFrom("2025-05-01 13:30:59:999000"), end)

	_, ok = s.Value("nope", 0)
	assert.False(t, ok)
}
