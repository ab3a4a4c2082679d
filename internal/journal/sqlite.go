package journal

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

type SqliteJournal struct {
	db *sql.DB
}

func NewSqlite(path string) (*SqliteJournal, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open journal db: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to init journal schema: %w", err)
	}

	return &SqliteJournal{db: db}, nil
}

func (j *SqliteJournal) Append(r Record) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, symbol, time, action, price, shares, value, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Id, r.Symbol, r.Time, r.Action, r.Price.String(), r.Shares, r.Value.String(), r.Reason,
	)
	if err != nil {
		return fmt.Errorf("failed to record trade: %w", err)
	}

	return nil
}

func (j *SqliteJournal) LastRecord(symbol string) (Record, bool, error) {
	row := j.db.QueryRow(`
		SELECT trade_id, symbol, time, action, price, shares, value, reason
		FROM trades WHERE symbol = ? ORDER BY trade_id DESC LIMIT 1`, symbol)

	var r Record
	var price, value string
	err := row.Scan(&r.Id, &r.Symbol, &r.Time, &r.Action, &price, &r.Shares, &value, &r.Reason)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to read last trade: %w", err)
	}

	if r.Price, err = decimal.NewFromString(price); err != nil {
		return Record{}, false, fmt.Errorf("corrupt price in journal: %w", err)
	}
	if r.Value, err = decimal.NewFromString(value); err != nil {
		return Record{}, false, fmt.Errorf("corrupt value in journal: %w", err)
	}

	return r, true, nil
}

func (j *SqliteJournal) Close() error {
	return j.db.Close()
}
