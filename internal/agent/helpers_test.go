package agent

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gamma-omg/trend-bot/internal/broker"
	"github.com/gamma-omg/trend-bot/internal/config"
	"github.com/gamma-omg/trend-bot/internal/journal"
	"github.com/gamma-omg/trend-bot/internal/market"
	"github.com/gamma-omg/trend-bot/internal/notify"
)

var testDay = time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)

type mockProvider struct {
	getDailyBars func(ctx context.Context, symbol string, start, end time.Time) ([]market.Bar, error)
}

func (m *mockProvider) GetDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]market.Bar, error) {
	return m.getDailyBars(ctx, symbol, start, end)
}

func staticBars(bars []market.Bar) *mockProvider {
	return &mockProvider{
		getDailyBars: func(context.Context, string, time.Time, time.Time) ([]market.Bar, error) {
			return bars, nil
		},
	}
}

type mockNotifier struct {
	mu        sync.Mutex
	signals   []notify.Signal
	announces []string
	signalErr error
}

func (m *mockNotifier) Signal(_ context.Context, s notify.Signal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.signals = append(m.signals, s)
	return m.signalErr
}

func (m *mockNotifier) Announce(_ context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.announces = append(m.announces, text)
	return nil
}

type mockJournal struct {
	mu      sync.Mutex
	records []journal.Record
	last    map[string]journal.Record
}

func (m *mockJournal) Append(r journal.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, r)
	return nil
}

func (m *mockJournal) LastRecord(symbol string) (journal.Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.last[symbol]
	return r, ok, nil
}

type mockBroker struct {
	cash  decimal.Decimal
	qty   decimal.Decimal
	entry decimal.Decimal
	buys  []int64
	sells []int64
	fill  func(symbol string, qty int64) broker.Fill
}

func (m *mockBroker) Cash() (decimal.Decimal, error) { return m.cash, nil }

func (m *mockBroker) Position(string) (decimal.Decimal, decimal.Decimal, error) {
	return m.qty, m.entry, nil
}

func (m *mockBroker) MarketBuy(_ context.Context, symbol string, qty int64) (broker.Fill, error) {
	m.buys = append(m.buys, qty)
	return m.fill(symbol, qty), nil
}

func (m *mockBroker) MarketSell(_ context.Context, symbol string, qty int64) (broker.Fill, error) {
	m.sells = append(m.sells, qty)
	return m.fill(symbol, qty), nil
}

func fillAt(price float64) func(string, int64) broker.Fill {
	return func(symbol string, qty int64) broker.Fill {
		return broker.Fill{
			OrderId:  "order-1",
			Symbol:   symbol,
			Qty:      decimal.NewFromInt(qty),
			AvgPrice: decimal.NewFromFloat(price),
			FilledAt: testDay.Add(15 * time.Hour),
		}
	}
}

func testConfig() config.Config {
	return config.Config{
		Strategy: config.Strategy{
			EmaSpan:        2,
			SmaWindow:      3,
			SlopeWindow:    1,
			InitialCapital: 100,
			LookbackDays:   365,
			BufferDays:     60,
		},
		Scan: config.Scan{MaxParallel: 2},
		Live: config.Live{PositionSizePct: 50},
	}
}

// testAgent pins the clock to the last bar's day so crafted series can
// end in a same day signal.
func testAgent(cfg config.Config, p barsProvider, n *mockNotifier, j *mockJournal, b brokerage) *Agent {
	a := New(cfg, ModeSandbox, p, n, j, b, slog.New(slog.DiscardHandler))
	a.now = func() time.Time { return testDay }
	return a
}

// mkBars builds one bar per day ending at testDay.
func mkBars(closes ...float64) []market.Bar {
	start := testDay.AddDate(0, 0, -(len(closes) - 1))

	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		d := decimal.NewFromFloat(c)
		bars[i] = market.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   d,
			High:   d,
			Low:    d,
			Close:  d,
			Volume: decimal.NewFromInt(1000),
		}
	}

	return bars
}

// buyTail ends with a close breaking above both averages, so the last
// bar emits BUY under EmaSpan 2, SmaWindow 3.
func buyTail() []float64 {
	return []float64{10, 10, 10, 9, 8, 12}
}

// sellTail rides an uptrend and drops below the SMA on the last bar.
func sellTail() []float64 {
	return []float64{10, 11, 12, 13, 14, 15, 9}
}

func flatTail() []float64 {
	return []float64{10, 10, 10, 10, 10, 10}
}
