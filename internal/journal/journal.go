package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one signalled or executed trade action. Id is a ULID, so
// id order is creation order.
type Record struct {
	Id     string
	Symbol string
	Time   time.Time
	Action string
	Price  decimal.Decimal
	Shares int64
	Value  decimal.Decimal
	Reason string
}

// Journal persists trade records. LastRecord serves the re-entry
// check, which inspects the most recent action for a symbol.
type Journal interface {
	Append(r Record) error
	LastRecord(symbol string) (Record, bool, error)
	Close() error
}

// Noop is the journal used when none is configured.
type Noop struct{}

func (Noop) Append(Record) error { return nil }

func (Noop) LastRecord(string) (Record, bool, error) { return Record{}, false, nil }

func (Noop) Close() error { return nil }
