// Package signal turns the last row of indicator readings into a weighted score and a
// trade recommendation.
package signal

// Factor is one weighted vote of the scorer. Buy and Sell receive the values of Inputs
// in order; Buy is checked first.
type Factor struct {
	Name   string
	Weight float64
	Inputs []string
	Buy    func(v []float64) bool
	Sell   func(v []float64) bool
}

// DefaultFactors is the standard weight table. The weights sum to 1.
var DefaultFactors = []Factor{
	{
		Name:   "RSI",
		Weight: 0.25,
		Inputs: []string{"RSI"},
		Buy:    func(v []float64) bool { return v[0] < 30 },
		Sell:   func(v []float64) bool { return v[0] > 70 },
	},
	{
		Name:   "MACD",
		Weight: 0.20,
		Inputs: []string{"MACD", "MACD_signal"},
		Buy:    greater,
		Sell:   less,
	},
	{
		Name:   "Bollinger",
		Weight: 0.20,
		Inputs: []string{"closing_price", "Bollinger_lower", "Bollinger_upper"},
		Buy:    func(v []float64) bool { return v[0] <= v[1] },
		Sell:   func(v []float64) bool { return v[0] >= v[2] },
	},
	{
		Name:   "SMA_20",
		Weight: 0.15,
		Inputs: []string{"closing_price", "SMA_20"},
		Buy:    greater,
		Sell:   less,
	},
	{
		Name:   "SMA_crossover",
		Weight: 0.20,
		Inputs: []string{"SMA_20", "SMA_50"},
		Buy:    greater,
		Sell:   less,
	},
}

func greater(v []float64) bool { return v[0] > v[1] }
func less(v []float64) bool    { return v[0] < v[1] }
