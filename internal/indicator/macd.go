package indicator

// MACD returns the moving average convergence divergence line, its signal
// line and the histogram between them, all aligned with data.
func MACD(data []float64, fast, slow, signalSpan int) (line, signal, hist []float64) {
	fastEma := EMA(data, fast)
	slowEma := EMA(data, slow)

	line = make([]float64, len(data))
	for i := range data {
		line[i] = fastEma[i] - slowEma[i]
	}

	signal = EMA(line, signalSpan)
	hist = make([]float64, len(data))
	for i := range data {
		hist[i] = line[i] - signal[i]
	}

	return
}
