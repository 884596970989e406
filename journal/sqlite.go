package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, side, symbol, units, price, leverage, fee, total, time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Side, t.Symbol, t.Units, t.Price,
		t.Leverage, t.Fee, t.Total, t.Time,
	)
	return err
}

func (j *SQLite) RecordBalance(b BalanceSnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO balances
		(time, spot, margin, realized, unrealized, holdings_value)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.Time, b.Spot, b.Margin, b.Realized, b.Unrealized, b.HoldingsValue,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
