package journal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCsv(t *testing.T) *CsvJournal {
	t.Helper()
	return NewCsv(filepath.Join(t.TempDir(), "trades.csv"))
}

func TestCsv_lastRecordPerSymbol(t *testing.T) {
	j := testCsv(t)

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

func TestCsv_headerWrittenOnce(t *testing.T) {
	j := testCsv(t)

	require.NoError(t, j.Append(testRecord("AAPL", 1, "BUY", "187.33")))
	require.NoError(t, j.Append(testRecord("AAPL", 2, "SELL", "190.05")))

	data, err := os.ReadFile(j.path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,symbol,time,action,price,shares,value,reason", lines[0])
}

func TestCsv_missingFileIsEmpty(t *testing.T) {
	j := testCsv(t)

	_, ok, err := j.LastRecord("AAPL")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCsv_reopenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")

	require.NoError(t, NewCsv(path).Append(testRecord("AAPL", 1, "BUY", "187.33")))

	reopened := NewCsv(path)
	require.NoError(t, reopened.Append(testRecord("AAPL", 2, "SELL", "190.05")))

	got, ok, err := reopened.LastRecord("AAPL")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "SELL", got.Action)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "id,symbol"))
}

func TestCsv_corruptRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	content := "id,symbol,time,action,price,shares,value,reason\nx,AAPL,2025-03-01T00:00:00Z,BUY,not-a-price,12,100,r\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, _, err := NewCsv(path).LastRecord("AAPL")
	assert.ErrorContains(t, err, "price")
}
