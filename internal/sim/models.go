package sim

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Action int

const (
	ACT_BUY Action = iota
	ACT_SELL
	ACT_SELL_EOD
)

func (a Action) String() string {
	switch a {
	case ACT_BUY:
		return "BUY"
	case ACT_SELL:
		return "SELL"
	case ACT_SELL_EOD:
		return "SELL_EOD"
	default:
		return "UNKNOWN"
	}
}

// TradeEvent is a single transition of the strategy. PortfolioValue is
// cash plus the position marked at the event price, after the event.
type TradeEvent struct {
	Time           time.Time
	Action         Action
	Price          decimal.Decimal
	Shares         int64
	PortfolioValue decimal.Decimal
}

// Params drive a simulation run. SlopeWindow must be at least 1, spans
// at least 2; Config.Validate enforces that before a run is built.
type Params struct {
	EmaSpan        int
	SmaWindow      int
	SlopeWindow    int
	InitialCapital decimal.Decimal
	CommissionPct  float64
}

type Result struct {
	Trades  []TradeEvent
	Summary Summary
}

// LastTrade returns the most recent trade event of the run.
func (r *Result) LastTrade() (TradeEvent, bool) {
	if len(r.Trades) == 0 {
		return TradeEvent{}, false
	}

	return r.Trades[len(r.Trades)-1], true
}

type Summary struct {
	InitialCapital decimal.Decimal
	FinalCash      decimal.Decimal
	Profit         decimal.Decimal
	ReturnPct      float64
}

func (s Summary) String() string {
	return fmt.Sprintf("Initial: $%s → Final: $%s → Profit: $%s (%.2f%%)",
		s.InitialCapital.StringFixed(2),
		s.FinalCash.StringFixed(2),
		s.Profit.StringFixed(2),
		s.ReturnPct)
}
