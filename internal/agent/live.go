package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/gamma-omg/trend-bot/internal/id"
	"github.com/gamma-omg/trend-bot/internal/indicator"
	"github.com/gamma-omg/trend-bot/internal/journal"
	"github.com/gamma-omg/trend-bot/internal/market"
	"github.com/gamma-omg/trend-bot/internal/sim"
)

const (
	reentryBars    = 60
	reentryEmaSpan = 10
	rsiPeriod      = 14
	rsiCeiling     = 70.0
	macdFast       = 12
	macdSlow       = 26
	macdSignal     = 9
)

// RunLive executes one trading day for a single symbol: simulate the
// lookback window, dispatch a same day signal if one fired, otherwise
// fall back to guarding any held position.
func (a *Agent) RunLive(ctx context.Context, symbol string) error {
	bars, err := a.fetchWindow(ctx, symbol)
	if err != nil {
		return err
	}

	params := a.params()
	if a.cfg.Live.Execute && a.broker != nil {
		cash, err := a.broker.Cash()
		if err != nil {
			return fmt.Errorf("failed to read account cash: %w", err)
		}
		if cash.IsPositive() {
			params.InitialCapital = cash
		}
	}

	res := sim.New(params, a.log.With("symbol", symbol)).Run(bars)
	a.log.Info("simulation finished",
		slog.String("symbol", symbol),
		slog.String("summary", res.Summary.String()))

	ev, ok := a.todaySignal(res)
	if !ok {
		a.log.Info("no signal today", "symbol", symbol)
		return a.guardHeldPosition(ctx, symbol, bars)
	}

	switch ev.Action {
	case sim.ACT_BUY:
		reason := reasonBuy
		if a.cfg.Live.Reenter {
			gated, err := a.afterSell(symbol)
			if err != nil {
				return err
			}
			if gated {
				if !a.ShouldReenter(ctx, symbol, bars) {
					return nil
				}
				reason = reasonReenter
			}
		}
		return a.dispatch(ctx, symbol, ev, reason)

	case sim.ACT_SELL:
		return a.dispatch(ctx, symbol, ev, reasonSell)
	}

	return nil
}

// afterSell reports whether the journal's latest entry for the symbol
// closed a position, which is what arms the re-entry check.
func (a *Agent) afterSell(symbol string) (bool, error) {
	last, ok, err := a.journal.LastRecord(symbol)
	if err != nil {
		return false, fmt.Errorf("failed to read journal for %s: %w", symbol, err)
	}

	return ok && last.Action != "BUY", nil
}

// ShouldReenter checks the momentum indicators that must confirm a buy
// after a closed position: positive MACD histogram, RSI under 70 and
// price above EMA10 over the trailing sixty bars. The outcome is
// announced either way.
func (a *Agent) ShouldReenter(ctx context.Context, symbol string, bars []market.Bar) bool {
	bars = market.LastN(bars, reentryBars)
	if len(bars) < reentryBars {
		a.announce(ctx, "⚠️ Indicator data unavailable. Skipping trade logic.")
		a.journalSkip(symbol)
		return false
	}

	closes := market.Closes(bars)
	price := last(closes)
	ema10 := last(indicator.EMA(closes, reentryEmaSpan))
	_, _, hist := indicator.MACD(closes, macdFast, macdSlow, macdSignal)
	macdHist := last(hist)
	rsi := last(indicator.RSI(closes, rsiPeriod))
	volume := bars[len(bars)-1].Volume

	msg := fmt.Sprintf(
		"📊 Indicator Check:\nPrice: $%.2f\nEMA10: $%.2f\nMACD Histogram: %.2f\nRSI (14): %.1f\nVolume: %s\n",
		price, ema10, macdHist, rsi, volume)

	if macdHist > 0 && rsi < rsiCeiling && price > ema10 {
		a.announce(ctx, msg+"✅ Signal confirmed. Good time to BUY.")
		return true
	}

	a.announce(ctx, msg+"🚫 Signal not confirmed. Avoid buying.")
	return false
}

func (a *Agent) journalSkip(symbol string) {
	rec := journal.Record{
		Id:     id.New(),
		Symbol: symbol,
		Time:   a.now(),
		Action: "SKIP",
		Reason: "Indicator data unavailable",
	}
	if err := a.journal.Append(rec); err != nil {
		a.log.Warn("failed to journal skip", "symbol", symbol, "error", err)
	}
}

// guardHeldPosition applies the optional exit rules to a live position
// on days the strategy stays quiet: a partial take profit at the
// configured gain and a full exit when price slips under EMA10 with a
// negative MACD histogram.
func (a *Agent) guardHeldPosition(ctx context.Context, symbol string, bars []market.Bar) error {
	if a.broker == nil || len(bars) == 0 {
		return nil
	}

	qty, entry, err := a.broker.Position(symbol)
	if err != nil {
		return fmt.Errorf("failed to read position for %s: %w", symbol, err)
	}

	held := qty.IntPart()
	if held <= 0 {
		return nil
	}

	bar := bars[len(bars)-1]

	if target := a.cfg.Live.ProfitTargetPct; target > 0 && entry.IsPositive() {
		gain, _ := bar.Close.Sub(entry).Div(entry).Mul(decimal.NewFromInt(100)).Float64()
		if gain >= target {
			if half := held / 2; half > 0 {
				return a.guardSell(ctx, symbol, bar, half, fmt.Sprintf("+%.0f%% profit", target))
			}
		}
	}

	if a.cfg.Live.MacdExit {
		closes := market.Closes(bars)
		ema10 := indicator.EMA(closes, reentryEmaSpan)
		_, _, hist := indicator.MACD(closes, macdFast, macdSlow, macdSignal)

		if last(closes) < last(ema10) && last(hist) < 0 {
			return a.guardSell(ctx, symbol, bar, held, reasonMacdExit)
		}
	}

	a.announce(ctx, fmt.Sprintf("Holding %d shares. No action.", held))
	return nil
}

func (a *Agent) guardSell(ctx context.Context, symbol string, bar market.Bar, shares int64, reason string) error {
	return a.dispatch(ctx, symbol, sim.TradeEvent{
		Time:           bar.Time,
		Action:         sim.ACT_SELL,
		Price:          bar.Close,
		Shares:         shares,
		PortfolioValue: bar.Close.Mul(decimal.NewFromInt(shares)),
	}, reason)
}

func last(vals []float64) float64 {
	return vals[len(vals)-1]
}
