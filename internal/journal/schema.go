package journal

// Prices are stored as TEXT to keep decimal values exact.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	time DATETIME NOT NULL,
	action TEXT NOT NULL,
	price TEXT NOT NULL,
	shares INTEGER NOT NULL,
	value TEXT NOT NULL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol, trade_id);
`
