package indicator

import (
	"math"

	"github.com/volatiletech/null"
)

// rollingMean is the trailing mean over w rows. A row is null unless all w inputs are present.
func rollingMean(x []null.Float64, w int) []null.Float64 {
	out := make([]null.Float64, len(x))
	for i := w - 1; i < len(x); i++ {
		sum, ok := windowSum(x[i-w+1 : i+1])
		if !ok {
			continue
		}
		out[i] = null.Float64From(sum / float64(w))
	}
	return out
}

// rollingStd is the trailing sample standard deviation (n-1 denominator) over w rows.
func rollingStd(x []null.Float64, w int) []null.Float64 {
	out := make([]null.Float64, len(x))
	if w < 2 {
		return out
	}
	for i := w - 1; i < len(x); i++ {
		win := x[i-w+1 : i+1]
		sum, ok := windowSum(win)
		if !ok {
			continue
		}
		mean := sum / float64(w)
		var ss float64
		for _, v := range win {
			d := v.Float64 - mean
			ss += d * d
		}
		out[i] = null.Float64From(math.Sqrt(ss / float64(w-1)))
	}
	return out
}

func windowSum(win []null.Float64) (float64, bool) {
	var sum float64
	for _, v := range win {
		if !v.Valid {
			return 0, false
		}
		sum += v.Float64
	}
	return sum, true
}

// ewm is the recursive exponential mean with alpha = 2/(span+1) and no bias adjustment.
// It is seeded by the first present value. A null input carries the previous mean
// forward, and the weight of the old mean keeps decaying across the gap.
func ewm(x []null.Float64, span int) []null.Float64 {
	out := make([]null.Float64, len(x))
	alpha := 2 / (float64(span) + 1)
	decay := 1 - alpha

	var (
		mean   float64
		seeded bool
		oldWt  = 1.0
	)
	for i, v := range x {
		switch {
		case !seeded:
			if !v.Valid {
				continue
			}
			mean, seeded = v.Float64, true
		default:
			oldWt *= decay
			if v.Valid {
				if mean != v.Float64 {
					mean = (oldWt*mean + alpha*v.Float64) / (oldWt + alpha)
				}
				oldWt = 1
			}
		}
		out[i] = null.Float64From(mean)
	}
	return out
}

// diff is x[i] - x[i-1]; null when either side is null.
func diff(x []null.Float64) []null.Float64 {
	out := make([]null.Float64, len(x))
	for i := 1; i < len(x); i++ {
		if x[i].Valid && x[i-1].Valid {
			out[i] = null.Float64From(x[i].Float64 - x[i-1].Float64)
		}
	}
	return out
}

// combine applies f row by row where both inputs are present. NaN and infinite
// results become null.
func combine(a, b []null.Float64, f func(a, b float64) float64) []null.Float64 {
	out := make([]null.Float64, len(a))
	for i := range a {
		if !a[i].Valid || !b[i].Valid {
			continue
		}
		v := f(a[i].Float64, b[i].Float64)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[i] = null.Float64From(v)
	}
	return out
}

func sub(a, b float64) float64 { return a - b }
