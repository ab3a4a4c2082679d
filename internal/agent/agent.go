package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gamma-omg/trend-bot/internal/broker"
	"github.com/gamma-omg/trend-bot/internal/config"
	"github.com/gamma-omg/trend-bot/internal/id"
	"github.com/gamma-omg/trend-bot/internal/journal"
	"github.com/gamma-omg/trend-bot/internal/market"
	"github.com/gamma-omg/trend-bot/internal/notify"
	"github.com/gamma-omg/trend-bot/internal/sim"
)

const (
	ModeSandbox = "sandbox"
	ModeLive    = "live"
)

const (
	reasonBuy      = "Slope-confirmed EMA crossover"
	reasonSell     = "Price dropped below SMA after uptrend"
	reasonReenter  = "Trend resumed"
	reasonMacdExit = "MACD exit"
)

type barsProvider interface {
	GetDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]market.Bar, error)
}

type notifier interface {
	Signal(ctx context.Context, s notify.Signal) error
	Announce(ctx context.Context, text string) error
}

type tradeJournal interface {
	Append(r journal.Record) error
	LastRecord(symbol string) (journal.Record, bool, error)
}

type brokerage interface {
	Cash() (decimal.Decimal, error)
	Position(symbol string) (qty, avgEntry decimal.Decimal, err error)
	MarketBuy(ctx context.Context, symbol string, qty int64) (broker.Fill, error)
	MarketSell(ctx context.Context, symbol string, qty int64) (broker.Fill, error)
}

// Agent runs the EMA/SMA trend strategy against a bar provider and
// routes resulting signals to the notifier, the journal and, when
// order execution is enabled, the brokerage. A nil brokerage restricts
// the agent to dry runs.
type Agent struct {
	log      *slog.Logger
	cfg      config.Config
	mode     string
	provider barsProvider
	notifier notifier
	journal  tradeJournal
	broker   brokerage
	now      func() time.Time
}

func New(cfg config.Config, mode string, provider barsProvider, notifier notifier, journal tradeJournal, broker brokerage, log *slog.Logger) *Agent {
	return &Agent{
		log:      log,
		cfg:      cfg,
		mode:     mode,
		provider: provider,
		notifier: notifier,
		journal:  journal,
		broker:   broker,
		now:      time.Now,
	}
}

// RunBacktest simulates the strategy over the configured lookback
// window and returns the result together with the bars it ran on.
func (a *Agent) RunBacktest(ctx context.Context, symbol string) (*sim.Result, []market.Bar, error) {
	bars, err := a.fetchWindow(ctx, symbol)
	if err != nil {
		return nil, nil, err
	}

	res := sim.New(a.params(), a.log.With("symbol", symbol)).Run(bars)
	return res, bars, nil
}

// fetchWindow loads lookback plus buffer days of history. The buffer
// is consumed by indicator warm up so trading decisions start near the
// beginning of the analysis window.
func (a *Agent) fetchWindow(ctx context.Context, symbol string) ([]market.Bar, error) {
	s := a.cfg.Strategy
	end := a.now()
	start := end.AddDate(0, 0, -(s.LookbackDays + s.BufferDays))

	bars, err := a.provider.GetDailyBars(ctx, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load bars for %s: %w", symbol, err)
	}

	return bars, nil
}

func (a *Agent) params() sim.Params {
	s := a.cfg.Strategy
	return sim.Params{
		EmaSpan:        s.EmaSpan,
		SmaWindow:      s.SmaWindow,
		SlopeWindow:    s.SlopeWindow,
		InitialCapital: decimal.NewFromFloat(s.InitialCapital),
		CommissionPct:  s.CommissionPct,
	}
}

// todaySignal returns the run's rule triggered trade dated today, if
// any. The forced end of data liquidation is a summary artifact and is
// never treated as a signal.
func (a *Agent) todaySignal(res *sim.Result) (sim.TradeEvent, bool) {
	for i := len(res.Trades) - 1; i >= 0; i-- {
		t := res.Trades[i]
		if t.Action == sim.ACT_SELL_EOD {
			continue
		}

		if market.SameDay(t.Time, a.now()) {
			return t, true
		}
		break
	}

	return sim.TradeEvent{}, false
}

// dispatch forwards a trade event exactly once: order execution when
// enabled, then notification, then the journal. The journaled event
// reflects the actual fill when an order was placed.
func (a *Agent) dispatch(ctx context.Context, symbol string, ev sim.TradeEvent, reason string) error {
	if a.cfg.Live.Execute && a.broker != nil {
		fill, ok, err := a.execute(ctx, symbol, ev)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		ev.Time = fill.FilledAt
		ev.Price = fill.AvgPrice
		ev.Shares = fill.Qty.IntPart()
		ev.PortfolioValue = fill.AvgPrice.Mul(fill.Qty)
	}

	a.notifySignal(ctx, symbol, ev, reason)

	rec := journal.Record{
		Id:     id.New(),
		Symbol: symbol,
		Time:   ev.Time,
		Action: ev.Action.String(),
		Price:  ev.Price,
		Shares: ev.Shares,
		Value:  ev.PortfolioValue,
		Reason: reason,
	}
	if err := a.journal.Append(rec); err != nil {
		return fmt.Errorf("failed to journal %s for %s: %w", ev.Action, symbol, err)
	}

	return nil
}

func (a *Agent) execute(ctx context.Context, symbol string, ev sim.TradeEvent) (broker.Fill, bool, error) {
	switch ev.Action {
	case sim.ACT_BUY:
		cash, err := a.broker.Cash()
		if err != nil {
			return broker.Fill{}, false, fmt.Errorf("failed to size buy order: %w", err)
		}

		pct := decimal.NewFromFloat(a.cfg.Live.PositionSizePct)
		budget := cash.Mul(pct).Div(decimal.NewFromInt(100))
		qty, _ := budget.QuoRem(ev.Price, 0)
		if qty.IntPart() <= 0 {
			a.announce(ctx, "🚫 Not enough capital to re-enter.")
			return broker.Fill{}, false, nil
		}

		fill, err := a.broker.MarketBuy(ctx, symbol, qty.IntPart())
		if err != nil {
			return broker.Fill{}, false, fmt.Errorf("failed to execute buy order: %w", err)
		}

		return fill, true, nil

	case sim.ACT_SELL:
		held, _, err := a.broker.Position(symbol)
		if err != nil {
			return broker.Fill{}, false, fmt.Errorf("failed to read position: %w", err)
		}

		// sell orders are capped at the held quantity
		qty := min(ev.Shares, held.IntPart())
		if qty <= 0 {
			a.log.Info("no position to sell", "symbol", symbol)
			return broker.Fill{}, false, nil
		}

		fill, err := a.broker.MarketSell(ctx, symbol, qty)
		if err != nil {
			return broker.Fill{}, false, fmt.Errorf("failed to execute sell order: %w", err)
		}

		return fill, true, nil
	}

	return broker.Fill{}, false, nil
}

func (a *Agent) notifySignal(ctx context.Context, symbol string, ev sim.TradeEvent, reason string) {
	err := a.notifier.Signal(ctx, notify.Signal{
		Symbol:         symbol,
		Action:         ev.Action.String(),
		Price:          ev.Price,
		Shares:         ev.Shares,
		PortfolioValue: ev.PortfolioValue,
		Reason:         reason,
	})
	if err != nil {
		a.log.Warn("failed to send signal notification", "symbol", symbol, "error", err)
	}
}

func (a *Agent) announce(ctx context.Context, text string) {
	if err := a.notifier.Announce(ctx, text); err != nil {
		a.log.Warn("failed to send notification", "error", err)
	}
}
