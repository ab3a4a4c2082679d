package sim

import (
	"log/slog"
	"math"

	"github.com/gamma-omg/trend-bot/internal/indicator"
	"github.com/gamma-omg/trend-bot/internal/market"
	"github.com/shopspring/decimal"
)

// Simulator replays the trend following rules over a daily series. A
// run owns its cash and position state, walks the bars in order and is
// strictly single threaded; callers run separate tickers on separate
// Simulators.
type Simulator struct {
	log        *slog.Logger
	params     Params
	commission *fixedRateCommission
}

func New(params Params, log *slog.Logger) *Simulator {
	return &Simulator{
		log:        log,
		params:     params,
		commission: newFixedRateCommission(params.CommissionPct),
	}
}

// Run walks bars from index SlopeWindow onward. Bars before that lack
// a trailing slope and bars without a full SMA window lack the exit
// reference, both are skipped as warm up rather than treated as errors.
// While flat it buys as many whole shares as cash allows once the close
// sits above both averages; while long it sells everything once the
// close falls below the SMA after a bar above it. A position still open
// after the last bar is liquidated at the final close.
func (s *Simulator) Run(bars []market.Bar) *Result {
	closes := market.Closes(bars)
	emas := indicator.EMA(closes, s.params.EmaSpan)
	smas := indicator.SMA(closes, s.params.SmaWindow)

	cash := s.params.InitialCapital
	var shares int64
	var trades []TradeEvent

	for i := s.params.SlopeWindow; i < len(bars); i++ {
		if math.IsNaN(smas[i]) {
			continue
		}

		price := bars[i].Close

		if shares == 0 && closes[i] > emas[i] && closes[i] > smas[i] {
			n, _ := cash.QuoRem(s.commission.BuyPrice(price), 0)
			bought := n.IntPart()
			if bought <= 0 {
				continue
			}

			cash = cash.Sub(s.commission.BuyPrice(price).Mul(decimal.NewFromInt(bought)))
			shares = bought

			trades = append(trades, TradeEvent{
				Time:           bars[i].Time,
				Action:         ACT_BUY,
				Price:          price,
				Shares:         shares,
				PortfolioValue: cash.Add(price.Mul(decimal.NewFromInt(shares))),
			})

			// The richer entry conditions remain informational: the
			// executed rule is the close above both averages check.
			slope := indicator.Slope(emas[i-s.params.SlopeWindow : i])
			crossover := closes[i-1] < emas[i-1] && closes[i] > emas[i] && slope > 0
			alignment := emas[i-1] < smas[i-1] && emas[i] > smas[i] && closes[i] > emas[i] && closes[i] > smas[i]
			s.log.Debug("buy",
				slog.Time("date", bars[i].Time),
				slog.String("price", price.String()),
				slog.Int64("shares", shares),
				slog.Float64("ema_slope", slope),
				slog.Bool("crossover", crossover),
				slog.Bool("alignment", alignment))
		} else if shares > 0 && closes[i-1] > smas[i-1] && closes[i] < smas[i] {
			cash = cash.Add(s.commission.ApplyOnSell(price.Mul(decimal.NewFromInt(shares))))

			trades = append(trades, TradeEvent{
				Time:           bars[i].Time,
				Action:         ACT_SELL,
				Price:          price,
				Shares:         shares,
				PortfolioValue: cash,
			})

			s.log.Debug("sell",
				slog.Time("date", bars[i].Time),
				slog.String("price", price.String()),
				slog.Int64("shares", shares))
			shares = 0
		}
	}

	if shares > 0 {
		last := bars[len(bars)-1]
		cash = cash.Add(s.commission.ApplyOnSell(last.Close.Mul(decimal.NewFromInt(shares))))

		trades = append(trades, TradeEvent{
			Time:           last.Time,
			Action:         ACT_SELL_EOD,
			Price:          last.Close,
			Shares:         shares,
			PortfolioValue: cash,
		})

		s.log.Debug("forced exit at end of series",
			slog.Time("date", last.Time),
			slog.String("price", last.Close.String()),
			slog.Int64("shares", shares))
	}

	return &Result{
		Trades:  trades,
		Summary: s.summarize(cash),
	}
}

func (s *Simulator) summarize(cash decimal.Decimal) Summary {
	pct := 0.0
	if s.params.InitialCapital.IsPositive() {
		ratio := cash.Div(s.params.InitialCapital)
		pct, _ = ratio.Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100)).Float64()
	}

	return Summary{
		InitialCapital: s.params.InitialCapital,
		FinalCash:      cash,
		Profit:         cash.Sub(s.params.InitialCapital),
		ReturnPct:      pct,
	}
}
