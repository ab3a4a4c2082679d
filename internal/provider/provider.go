package provider

import (
	"context"
	"time"

	"github.com/gamma-omg/trend-bot/internal/market"
)

// BarProvider serves daily bars for a symbol within [start, end],
// oldest first, normalized to one bar per calendar date.
type BarProvider interface {
	GetDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]market.Bar, error)
}
