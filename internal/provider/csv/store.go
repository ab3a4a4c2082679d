package csv

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gamma-omg/trend-bot/internal/market"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var header = []string{"date", "open", "high", "low", "close", "volume"}

type barFilter func(b market.Bar) bool

// Store keeps one CSV file per symbol under dir, lowercase named. It
// serves cached bars through the provider interface and is rewritten
// by the fetch command.
type Store struct {
	log *slog.Logger
	dir string
}

func NewStore(dir string, log *slog.Logger) *Store {
	return &Store{
		log: log,
		dir: dir,
	}
}

func (s *Store) Path(symbol string) string {
	return filepath.Join(s.dir, strings.ToLower(symbol)+".csv")
}

// ReadBars loads the full cached series for symbol, oldest first. A
// missing cache file yields an empty series, not an error.
func (s *Store) ReadBars(symbol string) ([]market.Bar, error) {
	return s.readFiltered(symbol, func(market.Bar) bool { return true })
}

// GetDailyBars serves cached bars whose calendar date falls within
// [start, end].
func (s *Store) GetDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]market.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	startKey := market.DateKey(start)
	endKey := market.DateKey(end)
	bars, err := s.readFiltered(symbol, func(b market.Bar) bool {
		k := market.DateKey(b.Time)
		return k >= startKey && k <= endKey
	})
	if err != nil {
		return nil, err
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: no cached bars for %s between %s and %s",
			market.ErrDataUnavailable, symbol, startKey, endKey)
	}

	return bars, nil
}

// WriteBars rewrites the cache file for symbol, normalized and oldest
// first.
func (s *Store) WriteBars(symbol string, bars []market.Bar) (err error) {
	if err = os.MkdirAll(s.dir, 0o755); err != nil {
		err = fmt.Errorf("unable to create cache dir: %w", err)
		return
	}

	f, err := os.Create(s.Path(symbol))
	if err != nil {
		err = fmt.Errorf("unable to create cache file: %w", err)
		return
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if err = w.Write(header); err != nil {
		err = fmt.Errorf("failed to write csv header: %w", err)
		return
	}

	clean := market.Normalize(bars)
	for _, b := range clean {
		rec := []string{
			market.DateKey(b.Time),
			b.Open.String(),
			b.High.String(),
			b.Low.String(),
			b.Close.String(),
			b.Volume.String(),
		}
		if err = w.Write(rec); err != nil {
			err = fmt.Errorf("failed to write bar: %w", err)
			return
		}
	}

	w.Flush()
	if err = w.Error(); err != nil {
		return
	}

	s.log.Debug("bars cache updated",
		slog.String("symbol", symbol),
		slog.Int("bars", len(clean)))
	return
}

func (s *Store) readFiltered(symbol string, filter barFilter) ([]market.Bar, error) {
	f, err := os.Open(s.Path(symbol))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open bars cache: %w", err)
	}
	defer f.Close()

	bars, err := readBars(bufio.NewReader(f), filter)
	if err != nil {
		return nil, fmt.Errorf("failed to read bars cache for %s: %w", symbol, err)
	}

	return market.Normalize(bars), nil
}

func readBars(r io.Reader, filter barFilter) ([]market.Bar, error) {
	rdr := csv.NewReader(r)

	if _, err := rdr.Read(); err == io.EOF {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	var bars []market.Bar
	for {
		data, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read bar data: %w", err)
		}

		bar, err := parseBar(data)
		if err != nil {
			return nil, err
		}

		if filter(bar) {
			bars = append(bars, bar)
		}
	}

	return bars, nil
}

func parseBar(data []string) (market.Bar, error) {
	if len(data) < 6 {
		return market.Bar{}, fmt.Errorf("invalid bar record: expected 6 fields, got %d", len(data))
	}

	t, err := time.Parse(dateLayout, data[0])
	if err != nil {
		return market.Bar{}, fmt.Errorf("failed to parse bar date: %w", err)
	}

	open, err := decimal.NewFromString(data[1])
	if err != nil {
		return market.Bar{}, fmt.Errorf("failed to read open price: %w", err)
	}

	high, err := decimal.NewFromString(data[2])
	if err != nil {
		return market.Bar{}, fmt.Errorf("failed to read high price: %w", err)
	}

	low, err := decimal.NewFromString(data[3])
	if err != nil {
		return market.Bar{}, fmt.Errorf("failed to read low price: %w", err)
	}

	close, err := decimal.NewFromString(data[4])
	if err != nil {
		return market.Bar{}, fmt.Errorf("failed to read close price: %w", err)
	}

	volume, err := decimal.NewFromString(data[5])
	if err != nil {
		return market.Bar{}, fmt.Errorf("failed to read volume: %w", err)
	}

	return market.Bar{
		Time:   t,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: volume,
	}, nil
}
