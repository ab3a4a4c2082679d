package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamma-omg/trend-bot/internal/id"
)

func testRecord(symbol string, day int, action string, price string) Record {
	return Record{
		Id:     id.New(),
		Symbol: symbol,
		Time:   time.Date(2025, 3, day, 21, 5, 0, 0, time.UTC),
		Action: action,
		Price:  decimal.RequireFromString(price),
		Shares: 12,
		Value:  decimal.RequireFromString("10000.50"),
		Reason: "Slope-confirmed EMA crossover",
	}
}

func testSqlite(t *testing.T) *SqliteJournal {
	t.Helper()

	j, err := NewSqlite(filepath.Join(t.TempDir(), "trades.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	return j
}

func TestSqlite_lastRecordPerSymbol(t *testing.T) {
	j := testSqlite(t)

	first := testRecord("AAPL", 1, "BUY", "187.33")
	other := testRecord("MSFT", 2, "BUY", "410.10")
	last := testRecord("AAPL", 3, "SELL", "190.05")

	require.NoError(t, j.Append(first))
	require.NoError(t, j.Append(other))
	require.NoError(t, j.Append(last))

	got, ok, err := j.LastRecord("AAPL")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, last.Id, got.Id)
	assert.Equal(t, "SELL", got.Action)
	assert.True(t, got.Price.Equal(last.Price))
	assert.True(t, got.Value.Equal(last.Value))
	assert.True(t, got.Time.Equal(last.Time))
	assert.Equal(t, int64(12), got.Shares)
	assert.Equal(t, last.Reason, got.Reason)

	got, ok, err = j.LastRecord("MSFT")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, other.Id, got.Id)
}

func TestSqlite_unknownSymbol(t *testing.T) {
	j := testSqlite(t)

	_, ok, err := j.LastRecord("TSLA")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSqlite_reopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.db")

	j, err := NewSqlite(path)
	require.NoError(t, err)
	require.NoError(t, j.Append(testRecord("AAPL", 1, "BUY", "187.33")))
	require.NoError(t, j.Close())

	reopened, err := NewSqlite(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.LastRecord("AAPL")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "BUY", got.Action)
}
