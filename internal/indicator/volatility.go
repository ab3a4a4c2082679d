package indicator

import "math"

// ATR returns the average true range over period, a simple moving
// average of true ranges. The first period positions are NaN.
func ATR(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	atr := make([]float64, n)
	for i := range atr {
		atr[i] = math.NaN()
	}
	if n < period+1 {
		return atr
	}

	var sum float64
	for i := 1; i < n; i++ {
		sum += trueRange(highs[i], lows[i], closes[i-1])
		if i > period {
			sum -= trueRange(highs[i-period], lows[i-period], closes[i-period-1])
		}
		if i >= period {
			atr[i] = sum / float64(period)
		}
	}

	return atr
}

func trueRange(high, low, prevClose float64) float64 {
	return max(high-low, math.Abs(high-prevClose), math.Abs(low-prevClose))
}

// Stochastic returns the %K and %D lines of the stochastic oscillator.
// %K needs a full kPeriod window and %D a full dPeriod window of valid
// %K values; earlier positions are NaN. Flat windows read as neutral 50.
func Stochastic(highs, lows, closes []float64, kPeriod, dPeriod int) (k, d []float64) {
	n := len(closes)
	k = make([]float64, n)
	d = make([]float64, n)
	for i := range k {
		k[i] = math.NaN()
		d[i] = math.NaN()
	}

	for i := kPeriod - 1; i < n; i++ {
		hh := highs[i]
		ll := lows[i]
		for j := i - kPeriod + 1; j < i; j++ {
			hh = max(hh, highs[j])
			ll = min(ll, lows[j])
		}

		if hh == ll {
			k[i] = 50
		} else {
			k[i] = 100 * (closes[i] - ll) / (hh - ll)
		}
	}

	for i := dPeriod - 1; i < n; i++ {
		var sum float64
		full := true
		for j := i - dPeriod + 1; j <= i; j++ {
			if math.IsNaN(k[j]) {
				full = false
				break
			}
			sum += k[j]
		}
		if full {
			d[i] = sum / float64(dPeriod)
		}
	}

	return
}
