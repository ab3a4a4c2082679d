package report

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gamma-omg/trend-bot/internal/sim"
)

// Builder collects backtest results across tickers and renders them as
// a JSON report. Safe for concurrent Submit calls from a scan.
type Builder struct {
	log      *slog.Logger
	report   jsonReport
	invested decimal.Decimal
	profit   decimal.Decimal
	mu       sync.Mutex
}

type jsonReport struct {
	TotalProfit    string             `json:"total_profit,omitempty"`
	TotalReturnPct float64            `json:"total_return_pct,omitempty"`
	Runs           map[string]jsonRun `json:"runs,omitempty"`
}

type jsonRun struct {
	InitialCapital string      `json:"initial_capital"`
	FinalCash      string      `json:"final_cash"`
	Profit         string      `json:"profit"`
	ReturnPct      float64     `json:"return_pct,omitempty"`
	Trades         []jsonTrade `json:"trades,omitempty"`
}

type jsonTrade struct {
	Time   time.Time `json:"time"`
	Action string    `json:"action"`
	Price  string    `json:"price"`
	Shares int64     `json:"shares"`
	Value  string    `json:"value"`
}

func NewBuilder(log *slog.Logger) *Builder {
	return &Builder{
		log: log,
		report: jsonReport{
			Runs: map[string]jsonRun{},
		},
	}
}

func (b *Builder) Submit(symbol string, res *sim.Result) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := res.Summary
	b.invested = b.invested.Add(s.InitialCapital)
	b.profit = b.profit.Add(s.Profit)

	run := jsonRun{
		InitialCapital: s.InitialCapital.StringFixed(2),
		FinalCash:      s.FinalCash.StringFixed(2),
		Profit:         s.Profit.StringFixed(2),
		ReturnPct:      s.ReturnPct,
	}
	for _, t := range res.Trades {
		run.Trades = append(run.Trades, jsonTrade{
			Time:   t.Time,
			Action: t.Action.String(),
			Price:  t.Price.StringFixed(2),
			Shares: t.Shares,
			Value:  t.PortfolioValue.StringFixed(2),
		})
	}
	b.report.Runs[symbol] = run

	b.log.Info("run recorded",
		slog.String("symbol", symbol),
		slog.Int("trades", len(res.Trades)),
		slog.Float64("return_pct", s.ReturnPct))
}

func (b *Builder) Write(w io.Writer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.profit.IsZero() {
		b.report.TotalProfit = b.profit.StringFixed(2)
	}
	if !b.invested.IsZero() {
		pct, _ := b.profit.Div(b.invested).Mul(decimal.NewFromInt(100)).Float64()
		b.report.TotalReturnPct = pct
	}

	e := json.NewEncoder(w)
	if err := e.Encode(b.report); err != nil {
		return fmt.Errorf("failed to write trading report: %w", err)
	}

	return nil
}

func (b *Builder) WriteToFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return b.Write(f)
}
