package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	side TEXT NOT NULL,
	symbol TEXT NOT NULL,
	units REAL NOT NULL,
	price REAL NOT NULL,
	leverage REAL NOT NULL,
	fee REAL NOT NULL,
	total REAL NOT NULL,
	time DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS balances (
	time DATETIME NOT NULL,
	spot REAL NOT NULL,
	margin REAL NOT NULL,
	realized REAL NOT NULL,
	unrealized REAL NOT NULL,
	holdings_value REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_balances_time ON balances(time);
`
