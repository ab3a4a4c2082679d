package indicator

import "math"

// RSI returns the relative strength index of data on a 0 to 100 scale,
// using simple moving averages of gains and losses over period. The
// first period positions are NaN.
func RSI(data []float64, period int) []float64 {
	rsi := make([]float64, len(data))
	for i := range rsi {
		rsi[i] = math.NaN()
	}
	if len(data) < period+1 {
		return rsi
	}

	var gains, losses float64
	for i := 1; i < len(data); i++ {
		diff := data[i] - data[i-1]
		if diff > 0 {
			gains += diff
		} else {
			losses -= diff
		}

		if i > period {
			old := data[i-period] - data[i-period-1]
			if old > 0 {
				gains -= old
			} else {
				losses += old
			}
		}

		if i >= period {
			rs := gains / losses
			rsi[i] = 100 - 100/(1+rs)
		}
	}

	return rsi
}
