package market

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Bar is one day of trading. Prices are decimals end to end so cash
// arithmetic downstream never rounds through float64.
type Bar struct {
	Time   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}

// ErrDataUnavailable is returned when a provider has no usable bars for the
// requested symbol and range.
var ErrDataUnavailable = errors.New("market data unavailable")

// Normalize returns the bars ordered by time ascending, with duplicate dates
// collapsed (the later entry wins) and non-positive closes dropped.
func Normalize(bars []Bar) []Bar {
	byDate := make(map[string]Bar, len(bars))
	for _, b := range bars {
		if !b.Close.IsPositive() {
			continue
		}
		byDate[DateKey(b.Time)] = b
	}

	out := make([]Bar, 0, len(byDate))
	for _, b := range byDate {
		out = append(out, b)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

// Merge combines cached and freshly fetched bars into one normalized series.
// Fresh bars replace cached entries sharing a date.
func Merge(cached, fresh []Bar) []Bar {
	merged := make([]Bar, 0, len(cached)+len(fresh))
	merged = append(merged, cached...)
	merged = append(merged, fresh...)
	return Normalize(merged)
}

// LastN returns the trailing n bars, or all of them when fewer exist.
func LastN(bars []Bar, n int) []Bar {
	if n >= len(bars) {
		return bars
	}
	return bars[len(bars)-n:]
}

func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i], _ = b.Close.Float64()
	}
	return out
}

func Highs(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i], _ = b.High.Float64()
	}
	return out
}

func Lows(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i], _ = b.Low.Float64()
	}
	return out
}

// DateKey formats a bar timestamp as its calendar date in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// SameDay reports whether two timestamps fall on the same UTC calendar date.
func SameDay(a, b time.Time) bool {
	return DateKey(a) == DateKey(b)
}
