// Package indicator computes technical indicator columns over an aligned minute series.
// Every function is a pure transform over whole columns; row i only depends on rows <= i.
package indicator

import (
	"math"

	"github.com/volatiletech/null"
)

// RSI is the relative strength index using trailing simple means of gains and losses.
// A null delta counts as neither gain nor loss. With no losses in the window the value
// is 100; with neither gains nor losses it is null.
func RSI(close []null.Float64, period int) []null.Float64 {
	delta := diff(close)
	gains := make([]null.Float64, len(delta))
	losses := make([]null.Float64, len(delta))
	for i, d := range delta {
		g, l := 0.0, 0.0
		if d.Valid && d.Float64 > 0 {
			g = d.Float64
		}
		if d.Valid && d.Float64 < 0 {
			l = -d.Float64
		}
		gains[i] = null.Float64From(g)
		losses[i] = null.Float64From(l)
	}

	avgGain := rollingMean(gains, period)
	avgLoss := rollingMean(losses, period)
	return combine(avgGain, avgLoss, func(gain, loss float64) float64 {
		rs := gain / loss
		return 100 - 100/(1+rs)
	})
}

// MACD returns the fast/slow EMA spread and its signal line.
func MACD(close []null.Float64, fast, slow, signal int) (macd, sig []null.Float64) {
	macd = combine(ewm(close, fast), ewm(close, slow), sub)
	sig = ewm(macd, signal)
	return macd, sig
}

// Bollinger returns the middle band, the sample standard deviation and the upper and
// lower bands at k deviations.
func Bollinger(close []null.Float64, period int, k float64) (mid, std, upper, lower []null.Float64) {
	mid = rollingMean(close, period)
	std = rollingStd(close, period)
	upper = combine(mid, std, func(m, s float64) float64 { return m + k*s })
	lower = combine(mid, std, func(m, s float64) float64 { return m - k*s })
	return mid, std, upper, lower
}

// SMA is the trailing simple mean over period rows.
func SMA(close []null.Float64, period int) []null.Float64 {
	return rollingMean(close, period)
}

// EMA is the exponential moving average with the given span.
func EMA(close []null.Float64, span int) []null.Float64 {
	return ewm(close, span)
}

// ATR is the trailing mean of the true range. The true range needs the previous close,
// so the first row and every row next to a gap are null.
func ATR(high, low, close []null.Float64, period int) []null.Float64 {
	tr := make([]null.Float64, len(close))
	for i := 1; i < len(close); i++ {
		h, l, pc := high[i], low[i], close[i-1]
		if !h.Valid || !l.Valid || !pc.Valid {
			continue
		}
		v := math.Max(h.Float64-l.Float64, math.Max(
			math.Abs(h.Float64-pc.Float64),
			math.Abs(l.Float64-pc.Float64),
		))
		tr[i] = null.Float64From(v)
	}
	return rollingMean(tr, period)
}

// OBV is the on-balance volume starting from 0. Rows whose comparison with the previous
// close is undefined leave the running total unchanged.
func OBV(close, volume []null.Float64) []null.Float64 {
	out := make([]null.Float64, len(close))
	if len(close) == 0 {
		return out
	}
	var total float64
	out[0] = null.Float64From(0)
	for i := 1; i < len(close); i++ {
		cur, prev, vol := close[i], close[i-1], volume[i]
		if cur.Valid && prev.Valid && vol.Valid {
			switch {
			case cur.Float64 > prev.Float64:
				total += vol.Float64
			case cur.Float64 < prev.Float64:
				total -= vol.Float64
			}
		}
		out[i] = null.Float64From(total)
	}
	return out
}

// VWAP is the cumulative volume-weighted close since the start of the series.
// Null rows are skipped by the running sums and stay null themselves.
func VWAP(close, volume []null.Float64) []null.Float64 {
	out := make([]null.Float64, len(close))
	var cumPV, cumV float64
	for i := range close {
		c, v := close[i], volume[i]
		if !c.Valid || !v.Valid {
			continue
		}
		cumPV += c.Float64 * v.Float64
		cumV += v.Float64
		vwap := cumPV / cumV
		if math.IsNaN(vwap) {
			continue
		}
		out[i] = null.Float64From(vwap)
	}
	return out
}
