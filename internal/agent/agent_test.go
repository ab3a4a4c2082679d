package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamma-omg/trend-bot/internal/market"
	"github.com/gamma-omg/trend-bot/internal/sim"
)

func TestRunBacktest(t *testing.T) {
	notifier := &mockNotifier{}
	journal := &mockJournal{}
	a := testAgent(testConfig(), staticBars(mkBars(sellTail()...)), notifier, journal, nil)

	res, bars, err := a.RunBacktest(context.Background(), "AAPL")

	require.NoError(t, err)
	assert.Len(t, bars, 7)
	require.Len(t, res.Trades, 2)
	assert.Equal(t, sim.ACT_BUY, res.Trades[0].Action)
	assert.True(t, res.Trades[0].Price.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, int64(8), res.Trades[0].Shares)
	assert.Equal(t, sim.ACT_SELL, res.Trades[1].Action)
	assert.True(t, res.Trades[1].Price.Equal(decimal.NewFromInt(9)))
	assert.True(t, res.Summary.FinalCash.Equal(decimal.NewFromInt(76)))

	assert.Empty(t, notifier.signals, "backtests must not notify")
	assert.Empty(t, journal.records, "backtests must not journal")
}

func TestRunBacktest_providerError(t *testing.T) {
	provider := &mockProvider{
		getDailyBars: func(context.Context, string, time.Time, time.Time) ([]market.Bar, error) {
			return nil, market.ErrDataUnavailable
		},
	}
	a := testAgent(testConfig(), provider, &mockNotifier{}, &mockJournal{}, nil)

	_, _, err := a.RunBacktest(context.Background(), "AAPL")

	assert.ErrorIs(t, err, market.ErrDataUnavailable)
}

func TestRunLive_buySignal(t *testing.T) {
	notifier := &mockNotifier{}
	journal := &mockJournal{}
	a := testAgent(testConfig(), staticBars(mkBars(buyTail()...)), notifier, journal, nil)

	err := a.RunLive(context.Background(), "AAPL")

	require.NoError(t, err)
	require.Len(t, notifier.signals, 1)
	sig := notifier.signals[0]
	assert.Equal(t, "AAPL", sig.Symbol)
	assert.Equal(t, "BUY", sig.Action)
	assert.True(t, sig.Price.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, int64(8), sig.Shares)
	assert.Equal(t, reasonBuy, sig.Reason)

	require.Len(t, journal.records, 1)
	rec := journal.records[0]
	assert.NotEmpty(t, rec.Id)
	assert.Equal(t, "AAPL", rec.Symbol)
	assert.Equal(t, "BUY", rec.Action)
	assert.True(t, rec.Price.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, int64(8), rec.Shares)
	assert.Equal(t, reasonBuy, rec.Reason)
}

func TestRunLive_sellSignal(t *testing.T) {
	notifier := &mockNotifier{}
	journal := &mockJournal{}
	a := testAgent(testConfig(), staticBars(mkBars(sellTail()...)), notifier, journal, nil)

	err := a.RunLive(context.Background(), "AAPL")

	require.NoError(t, err)
	require.Len(t, notifier.signals, 1)
	sig := notifier.signals[0]
	assert.Equal(t, "SELL", sig.Action)
	assert.True(t, sig.Price.Equal(decimal.NewFromInt(9)))
	assert.Equal(t, int64(8), sig.Shares)
	assert.Equal(t, reasonSell, sig.Reason)

	require.Len(t, journal.records, 1)
	assert.Equal(t, "SELL", journal.records[0].Action)
}

func TestRunLive_noSignal(t *testing.T) {
	notifier := &mockNotifier{}
	journal := &mockJournal{}
	a := testAgent(testConfig(), staticBars(mkBars(flatTail()...)), notifier, journal, nil)

	err := a.RunLive(context.Background(), "AAPL")

	require.NoError(t, err)
	assert.Empty(t, notifier.signals)
	assert.Empty(t, notifier.announces)
	assert.Empty(t, journal.records)
}

func TestRunLive_staleSignalIgnored(t *testing.T) {
	// The same series signals BUY on its last bar, but the clock has
	// moved a day past it.
	notifier := &mockNotifier{}
	journal := &mockJournal{}
	a := testAgent(testConfig(), staticBars(mkBars(buyTail()...)), notifier, journal, nil)
	a.now = func() time.Time { return testDay.AddDate(0, 0, 1) }

	err := a.RunLive(context.Background(), "AAPL")

	require.NoError(t, err)
	assert.Empty(t, notifier.signals)
	assert.Empty(t, journal.records)
}

func TestRunLive_notifyFailureDoesNotBlockJournal(t *testing.T) {
	notifier := &mockNotifier{signalErr: errors.New("telegram is down")}
	journal := &mockJournal{}
	a := testAgent(testConfig(), staticBars(mkBars(buyTail()...)), notifier, journal, nil)

	err := a.RunLive(context.Background(), "AAPL")

	require.NoError(t, err)
	assert.Len(t, journal.records, 1)
}

func TestRunLive_executeBuy(t *testing.T) {
	cfg := testConfig()
	cfg.Live.Execute = true
	cfg.Strategy.InitialCapital = 100

	broker := &mockBroker{cash: decimal.NewFromInt(1000), fill: fillAt(12.5)}
	notifier := &mockNotifier{}
	journal := &mockJournal{}
	a := testAgent(cfg, staticBars(mkBars(buyTail()...)), notifier, journal, broker)

	err := a.RunLive(context.Background(), "AAPL")

	require.NoError(t, err)
	// Half of the broker cash buys floor(500 / 12) = 41 shares.
	require.Equal(t, []int64{41}, broker.buys)

	require.Len(t, journal.records, 1)
	rec := journal.records[0]
	assert.True(t, rec.Price.Equal(decimal.NewFromFloat(12.5)), "journal must record the fill price")
	assert.Equal(t, int64(41), rec.Shares)
	assert.True(t, rec.Value.Equal(decimal.NewFromFloat(512.5)))
	assert.True(t, rec.Time.Equal(testDay.Add(15*time.Hour)))

	require.Len(t, notifier.signals, 1)
	assert.True(t, notifier.signals[0].Price.Equal(decimal.NewFromFloat(12.5)))
}

func TestRunLive_executeBuyWithoutCapital(t *testing.T) {
	cfg := testConfig()
	cfg.Live.Execute = true
	// 0.4% of $1000 buys nothing at $12 a share.
	cfg.Live.PositionSizePct = 0.4

	broker := &mockBroker{cash: decimal.NewFromInt(1000), fill: fillAt(12)}
	notifier := &mockNotifier{}
	journal := &mockJournal{}
	a := testAgent(cfg, staticBars(mkBars(buyTail()...)), notifier, journal, broker)

	err := a.RunLive(context.Background(), "AAPL")

	require.NoError(t, err)
	assert.Empty(t, broker.buys)
	assert.Empty(t, journal.records)
	assert.Empty(t, notifier.signals)
	assert.Equal(t, []string{"🚫 Not enough capital to re-enter."}, notifier.announces)
}

func TestRunLive_executeSellCappedAtPosition(t *testing.T) {
	cfg := testConfig()
	cfg.Live.Execute = true

	broker := &mockBroker{
		cash:  decimal.NewFromInt(1000),
		qty:   decimal.NewFromInt(5),
		entry: decimal.NewFromInt(12),
		fill:  fillAt(9),
	}
	notifier := &mockNotifier{}
	journal := &mockJournal{}
	a := testAgent(cfg, staticBars(mkBars(sellTail()...)), notifier, journal, broker)

	err := a.RunLive(context.Background(), "AAPL")

	require.NoError(t, err)
	// The simulation wants to liquidate its whole modeled position, but
	// only 5 shares are actually held.
	assert.Equal(t, []int64{5}, broker.sells)
	require.Len(t, journal.records, 1)
	assert.Equal(t, int64(5), journal.records[0].Shares)
}

func TestRunLive_capitalSeededFromBroker(t *testing.T) {
	cfg := testConfig()
	cfg.Live.Execute = true

	// With only $5 of buying power the simulation cannot afford a single
	// share, so the breakout produces no trade at all.
	broker := &mockBroker{cash: decimal.NewFromInt(5), fill: fillAt(12)}
	notifier := &mockNotifier{}
	a := testAgent(cfg, staticBars(mkBars(buyTail()...)), notifier, &mockJournal{}, broker)

	err := a.RunLive(context.Background(), "AAPL")

	require.NoError(t, err)
	assert.Empty(t, notifier.signals)
	assert.Empty(t, broker.buys)
}
