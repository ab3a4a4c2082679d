package indicator

import "math"

// EMA returns the exponential moving average of data with the given span.
// The first element seeds the series, so the output has no warm-up gap.
func EMA(data []float64, span int) []float64 {
	ema := make([]float64, len(data))
	if len(data) == 0 {
		return ema
	}

	ema[0] = data[0]
	a := 2.0 / (float64(span) + 1)
	for i, val := range data[1:] {
		ema[i+1] = val*a + ema[i]*(1-a)
	}

	return ema
}

// SMA returns the simple moving average of data over the given window.
// Positions with fewer than window samples behind them are NaN.
func SMA(data []float64, window int) []float64 {
	sma := make([]float64, len(data))
	var sum float64
	for i, val := range data {
		sum += val
		if i >= window {
			sum -= data[i-window]
		}
		if i >= window-1 {
			sma[i] = sum / float64(window)
		} else {
			sma[i] = math.NaN()
		}
	}

	return sma
}

// Slope fits a least squares line through vals indexed 0..n-1 and
// returns its gradient. Fewer than two points give zero.
func Slope(vals []float64) float64 {
	n := len(vals)
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range vals {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}

	return (fn*sumXY - sumX*sumY) / denom
}
