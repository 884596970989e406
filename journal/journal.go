package journal

import "time"

// TradeRecord is written once per fill and never mutated. The record
// log doubles as the entry-price basis for unrealized PNL.
type TradeRecord struct {
	TradeID  string    `json:"trade_id"`
	Side     string    `json:"side"` // "buy" or "sell"
	Symbol   string    `json:"symbol"`
	Units    float64   `json:"units"`
	Price    float64   `json:"price"`
	Leverage float64   `json:"leverage"`
	Fee      float64   `json:"fee"`
	Total    float64   `json:"total"` // notional: units * price * leverage
	Time     time.Time `json:"time"`
}

// BalanceSnapshot captures the ledger after a tick or settlement.
type BalanceSnapshot struct {
	Time          time.Time `json:"time"`
	Spot          float64   `json:"spot"`
	Margin        float64   `json:"margin"`
	Realized      float64   `json:"realized"`
	Unrealized    float64   `json:"unrealized"`
	HoldingsValue float64   `json:"holdings_value"`
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordBalance(BalanceSnapshot) error
	Close() error
}
