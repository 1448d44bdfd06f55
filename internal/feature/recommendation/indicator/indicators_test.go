package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null"
)

// col builds a column; NaN marks a null row.
func col(vs ...float64) []null.Float64 {
	out := make([]null.Float64, len(vs))
	for i, v := range vs {
		if !math.IsNaN(v) {
			out[i] = null.Float64From(v)
		}
	}
	return out
}

var nan = math.NaN()

func increasing(n int) []null.Float64 {
	out := make([]null.Float64, n)
	for i := range out {
		out[i] = null.Float64From(100 + float64(i))
	}
	return out
}

func constant(n int, v float64) []null.Float64 {
	out := make([]null.Float64, n)
	for i := range out {
		out[i] = null.Float64From(v)
	}
	return out
}

func assertColumn(t *testing.T, want, got []null.Float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		if !want[i].Valid {
			assert.False(t, got[i].Valid, "row %d should be null, got %v", i, got[i].Float64)
			continue
		}
		if assert.True(t, got[i].Valid, "row %d should be defined", i) {
			assert.InDelta(t, want[i].Float64, got[i].Float64, 1e-9, "row %d", i)
		}
	}
}

func TestRollingMean(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   []null.Float64
		w    int
		want []null.Float64
	}{
		{name: "full data", in: col(1, 2, 3, 4), w: 2, want: col(nan, 1.5, 2.5, 3.5)},
		{name: "gap nulls every window that spans it", in: col(1, 2, nan, 4, 5), w: 2, want: col(nan, 1.5, nan, nan, 4.5)},
		{name: "shorter than window", in: col(1, 2), w: 3, want: col(nan, nan)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assertColumn(t, tc.want, rollingMean(tc.in, tc.w))
		})
	}
}

func TestRollingStd_Sample(t *testing.T) {
	t.Parallel()

	got := rollingStd(col(2, 4, 4, 4, 5, 5, 7, 9), 8)

	require.True(t, got[7].Valid)
	assert.InDelta(t, math.Sqrt(32.0/7), got[7].Float64, 1e-12)
	for i := 0; i < 7; i++ {
		assert.False(t, got[i].Valid)
	}
}

func TestEWM(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   []null.Float64
		want []null.Float64
	}{
		{name: "seeded by first value", in: col(1, 2, 3), want: col(1, 1.5, 2.25)},
		{name: "gap carries value and decays old weight", in: col(1, nan, 3), want: col(1, 1, 1.75/0.75)},
		{name: "leading nulls stay null", in: col(nan, 2, 4), want: col(nan, 2, 3)},
		{name: "all null", in: col(nan, nan), want: col(nan, nan)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			// span 3 gives alpha 0.5
			assertColumn(t, tc.want, ewm(tc.in, 3))
		})
	}
}

func TestRSI(t *testing.T) {
	t.Parallel()

	t.Run("strictly increasing saturates at 100 from row 13", func(t *testing.T) {
		t.Parallel()
		got := RSI(increasing(60), 14)
		for i := 0; i < 13; i++ {
			assert.False(t, got[i].Valid, "row %d", i)
		}
		for i := 13; i < 60; i++ {
			require.True(t, got[i].Valid, "row %d", i)
			assert.Equal(t, 100.0, got[i].Float64)
		}
	})

	t.Run("flat prices give 0/0 and stay null", func(t *testing.T) {
		t.Parallel()
		for i, v := range RSI(constant(30, 5), 14) {
			assert.False(t, v.Valid, "row %d", i)
		}
	})

	t.Run("mixed moves", func(t *testing.T) {
		t.Parallel()
		got := RSI(col(10, 11, 10, 12), 3)
		// row 2 window deltas [0(null),+1,-1]: gain 1/3, loss 1/3 -> RSI 50
		assert.InDelta(t, 50.0, got[2].Float64, 1e-9)
		// row 3 window deltas [+1,-1,+2]: gain 1, loss 1/3 -> RS 3 -> RSI 75
		assert.InDelta(t, 75.0, got[3].Float64, 1e-9)
	})
}

func TestMACD_FlatSeriesIsZero(t *testing.T) {
	t.Parallel()

	m, sig := MACD(constant(40, 7), 12, 26, 9)

	for i := range m {
		assert.Equal(t, null.Float64From(0), m[i])
		assert.Equal(t, null.Float64From(0), sig[i])
	}
}

func TestMACD_RisingSeriesIsPositive(t *testing.T) {
	t.Parallel()

	m, sig := MACD(increasing(60), 12, 26, 9)

	assert.Equal(t, 0.0, m[0].Float64)
	assert.Greater(t, m[59].Float64, 0.0)
	assert.Greater(t, m[59].Float64, sig[59].Float64, "signal lags a rising MACD")
}

func TestBollinger(t *testing.T) {
	t.Parallel()

	closes := increasing(25)
	mid, std, upper, lower := Bollinger(closes, 20, 2)

	for i := 0; i < 19; i++ {
		assert.False(t, mid[i].Valid)
		assert.False(t, std[i].Valid)
		assert.False(t, upper[i].Valid)
		assert.False(t, lower[i].Valid)
	}
	// closes 100..119: mean 109.5, sample std sqrt(35)
	assert.InDelta(t, 109.5, mid[19].Float64, 1e-9)
	assert.InDelta(t, math.Sqrt(35), std[19].Float64, 1e-9)
	assert.InDelta(t, 109.5+2*math.Sqrt(35), upper[19].Float64, 1e-9)
	assert.InDelta(t, 109.5-2*math.Sqrt(35), lower[19].Float64, 1e-9)
}

func TestSMA_Windows(t *testing.T) {
	t.Parallel()

	closes := increasing(60)
	sma20 := SMA(closes, 20)
	sma50 := SMA(closes, 50)

	assert.False(t, sma20[18].Valid)
	assert.InDelta(t, 109.5, sma20[19].Float64, 1e-9)
	assert.False(t, sma50[48].Valid)
	assert.InDelta(t, 124.5, sma50[49].Float64, 1e-9)
}

func TestATR(t *testing.T) {
	t.Parallel()

	closes := constant(20, 100)
	highs := constant(20, 102)
	lows := constant(20, 98)

	got := ATR(highs, lows, closes, 14)

	for i := 0; i < 14; i++ {
		assert.False(t, got[i].Valid, "row %d", i)
	}
	for i := 14; i < 20; i++ {
		assert.InDelta(t, 4.0, got[i].Float64, 1e-9)
	}
}

func TestATR_UsesPreviousClose(t *testing.T) {
	t.Parallel()

	// gap up: |high - prev_close| dominates high - low
	got := ATR(col(10, 20), col(10, 19), col(10, 19.5), 1)

	assert.False(t, got[0].Valid)
	assert.InDelta(t, 10.0, got[1].Float64, 1e-9)
}

func TestOBV(t *testing.T) {
	t.Parallel()

	closes := col(10, 11, 11, 9, nan, 12, 13)
	volumes := col(1, 2, 3, 4, nan, 6, 7)

	got := OBV(closes, volumes)

	assertColumn(t, col(0, 2, 2, -2, -2, -2, 5), got)
	for i, v := range got {
		assert.True(t, v.Valid, "OBV is never null (row %d)", i)
	}
}

func TestOBV_SignProperty(t *testing.T) {
	t.Parallel()

	closes := col(5, 6, 4, 4, 8, 1)
	volumes := col(3, 1, 4, 1, 5, 9)
	got := OBV(closes, volumes)

	assert.Equal(t, 0.0, got[0].Float64)
	for i := 1; i < len(got); i++ {
		delta := got[i].Float64 - got[i-1].Float64
		switch {
		case closes[i].Float64 > closes[i-1].Float64:
			assert.Equal(t, volumes[i].Float64, delta)
		case closes[i].Float64 < closes[i-1].Float64:
			assert.Equal(t, -volumes[i].Float64, delta)
		default:
			assert.Equal(t, 0.0, delta)
		}
	}
}

func TestVWAP(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		close  []null.Float64
		volume []null.Float64
		want   []null.Float64
	}{
		{
			name:   "cumulative with a gap",
			close:  col(10, 20, nan, 30),
			volume: col(1, 1, nan, 2),
			want:   col(10, 15, nan, 22.5),
		},
		{
			name:   "zero volume is undefined",
			close:  col(5, 6),
			volume: col(0, 2),
			want:   col(nan, 6),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assertColumn(t, tc.want, VWAP(tc.close, tc.volume))
		})
	}
}
