package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const timeLayout = time.RFC3339

var header = []string{"id", "symbol", "time", "action", "price", "shares", "value", "reason"}

// CsvJournal appends records to a single CSV file, a journal that can
// be opened straight in a spreadsheet.
type CsvJournal struct {
	mu   sync.Mutex
	path string
}

func NewCsv(path string) *CsvJournal {
	return &CsvJournal{path: path}
}

func (j *CsvJournal) Append(r Record) (err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("unable to open journal file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("unable to stat journal file: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err = w.Write(header); err != nil {
			return fmt.Errorf("failed to write journal header: %w", err)
		}
	}

	err = w.Write([]string{
		r.Id,
		r.Symbol,
		r.Time.UTC().Format(timeLayout),
		r.Action,
		r.Price.String(),
		strconv.FormatInt(r.Shares, 10),
		r.Value.String(),
		r.Reason,
	})
	if err != nil {
		return fmt.Errorf("failed to append journal record: %w", err)
	}

	w.Flush()
	if err = w.Error(); err != nil {
		err = fmt.Errorf("failed to flush journal record: %w", err)
	}
	return
}

func (j *CsvJournal) LastRecord(symbol string) (Record, bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(j.path)
	if errors.Is(err, os.ErrNotExist) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("unable to open journal file: %w", err)
	}
	defer f.Close()

	rdr := csv.NewReader(f)
	if _, err := rdr.Read(); err == io.EOF {
		return Record{}, false, nil
	} else if err != nil {
		return Record{}, false, fmt.Errorf("failed to read journal header: %w", err)
	}

	var last Record
	found := false
	for {
		data, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Record{}, false, fmt.Errorf("failed to read journal record: %w", err)
		}

		r, err := parseRecord(data)
		if err != nil {
			return Record{}, false, err
		}

		if r.Symbol == symbol {
			last = r
			found = true
		}
	}

	return last, found, nil
}

func (j *CsvJournal) Close() error { return nil }

func parseRecord(data []string) (Record, error) {
	if len(data) < 8 {
		return Record{}, fmt.Errorf("invalid journal record: expected 8 fields, got %d", len(data))
	}

	t, err := time.Parse(timeLayout, data[2])
	if err != nil {
		return Record{}, fmt.Errorf("failed to parse record time: %w", err)
	}

	price, err := decimal.NewFromString(data[4])
	if err != nil {
		return Record{}, fmt.Errorf("failed to parse record price: %w", err)
	}

	shares, err := strconv.ParseInt(data[5], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("failed to parse record shares: %w", err)
	}

	value, err := decimal.NewFromString(data[6])
	if err != nil {
		return Record{}, fmt.Errorf("failed to parse record value: %w", err)
	}

	return Record{
		Id:     data[0],
		Symbol: data[1],
		Time:   t,
		Action: data[3],
		Price:  price,
		Shares: shares,
		Value:  value,
		Reason: data[7],
	}, nil
}
