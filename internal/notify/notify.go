package notify

import (
	"context"

	"github.com/shopspring/decimal"
)

// Signal describes a dispatched trade action.
type Signal struct {
	Symbol         string
	Action         string
	Price          decimal.Decimal
	Shares         int64
	PortfolioValue decimal.Decimal
	Reason         string
}

// Notifier delivers trade signals and free form announcements. Signal
// failures are the caller's to swallow; a missed notification must not
// stop a run.
type Notifier interface {
	Signal(ctx context.Context, s Signal) error
	Announce(ctx context.Context, text string) error
}
