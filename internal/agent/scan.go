package agent

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gamma-omg/trend-bot/internal/sim"
)

// ScanRow is one line of the daily scan summary.
type ScanRow struct {
	Ticker  string
	Action  string
	Price   string
	Current string
}

// Scan simulates every configured ticker concurrently and dispatches
// same day signals as it goes. A failed ticker becomes an ERROR row
// rather than aborting the scan. Scan never submits orders. The second
// return value is the number of tickers scanned.
func (a *Agent) Scan(ctx context.Context) ([]ScanRow, int, error) {
	tickers, err := a.tickers()
	if err != nil {
		return nil, 0, err
	}

	slots := make([]*ScanRow, len(tickers))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Scan.MaxParallel)

	for i, symbol := range tickers {
		g.Go(func() error {
			row, err := a.scanTicker(ctx, symbol)
			if err != nil {
				a.log.Error("scan failed", "symbol", symbol, "error", err)
				slots[i] = &ScanRow{Ticker: symbol, Action: "ERROR", Price: "-", Current: "-"}
				return nil
			}

			slots[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var rows []ScanRow
	for _, r := range slots {
		if r != nil {
			rows = append(rows, *r)
		}
	}

	return rows, len(tickers), nil
}

func (a *Agent) scanTicker(ctx context.Context, symbol string) (*ScanRow, error) {
	bars, err := a.fetchWindow(ctx, symbol)
	if err != nil {
		return nil, err
	}

	res := sim.New(a.params(), a.log.With("symbol", symbol)).Run(bars)

	ev, ok := a.todaySignal(res)
	if !ok {
		a.log.Debug("no signal today", "symbol", symbol)
		return nil, nil
	}

	reason := reasonBuy
	if ev.Action == sim.ACT_SELL {
		reason = reasonSell
	}
	if err := a.dispatch(ctx, symbol, ev, reason); err != nil {
		return nil, err
	}

	current := bars[len(bars)-1].Close
	return &ScanRow{
		Ticker:  symbol,
		Action:  ev.Action.String(),
		Price:   "$" + ev.Price.StringFixed(2),
		Current: "$" + current.StringFixed(2),
	}, nil
}

// AnnounceScan sends the combined daily summary for a finished scan.
func (a *Agent) AnnounceScan(ctx context.Context, rows []ScanRow, scanned int) {
	date := a.now().Format("Jan 02, 2006")

	if len(rows) == 0 {
		a.announce(ctx, fmt.Sprintf(
			"📈 *Daily Trade Summary* (%s)\nBroker mode: `%s`\nTickers scanned: *%d*\nNo trading signals were found today. ✅",
			date, a.mode, scanned))
		return
	}

	lines := []string{
		fmt.Sprintf("%-8s%-10s%-10s%-10s", "Ticker", "Action", "Price", "Current"),
		strings.Repeat("-", 38),
	}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%-8s%-10s%-10s%-10s", r.Ticker, r.Action, r.Price, r.Current))
	}

	a.announce(ctx, fmt.Sprintf(
		"📈 *Daily Trade Summary* (%s)\nBroker mode: `%s`\nTickers scanned: *%d*\nSignals found: *%d*\n\n```\n%s\n```",
		date, a.mode, scanned, len(rows), strings.Join(lines, "\n")))
}

func (a *Agent) tickers() ([]string, error) {
	if len(a.cfg.Scan.Tickers) > 0 {
		return a.cfg.Scan.Tickers, nil
	}
	if a.cfg.Scan.TickersFile == "" {
		return nil, errors.New("no tickers configured")
	}

	return readTickersFile(a.cfg.Scan.TickersFile)
}

// readTickersFile loads the Symbol column of a ticker list CSV,
// dropping blanks and duplicates.
func readTickersFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read tickers file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read tickers header: %w", err)
	}

	col := slices.Index(header, "Symbol")
	if col < 0 {
		return nil, errors.New("tickers file has no Symbol column")
	}

	var tickers []string
	seen := map[string]bool{}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tickers file: %w", err)
		}

		s := strings.TrimSpace(rec[col])
		if s == "" || seen[s] {
			continue
		}

		seen[s] = true
		tickers = append(tickers, s)
	}

	return tickers, nil
}
