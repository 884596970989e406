package market

import "time"

// PricePoint is one entry in an instrument's price history, oldest
// first within the history slice.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

// FormatTime renders the point's clock time for display.
func (p PricePoint) FormatTime() string { return p.Time.Format("15:04") }

// FormatDate renders the point's calendar date for display.
func (p PricePoint) FormatDate() string { return p.Time.Format("Jan 2") }

// Instrument is a tradable asset and its session state. Price is
// always positive, Change24h stays within [-10, 10], and Owned never
// goes negative (the engine rejects sells that exceed holdings).
type Instrument struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Symbol    string       `json:"symbol"`
	Price     float64      `json:"price"`
	Change24h float64      `json:"change_24h"`
	Owned     float64      `json:"owned"`
	History   []PricePoint `json:"history,omitempty"`
}

// Seed returns the built-in instrument catalog with launch prices.
// Callers own the returned instruments; histories start empty and are
// populated by Feed.SeedHistory.
func Seed() []*Instrument {
	return []*Instrument{
		{ID: "bitcoin", Name: "Bitcoin", Symbol: "BTC", Price: 65432.21, Change24h: 2.34},
		{ID: "solana", Name: "Solana", Symbol: "SOL", Price: 143.56, Change24h: 5.67},
		{ID: "cardano", Name: "Cardano", Symbol: "ADA", Price: 0.58, Change24h: -0.45},
		{ID: "binancecoin", Name: "Binance Coin", Symbol: "BNB", Price: 480.15, Change24h: 1.12},
		{ID: "ripple", Name: "XRP", Symbol: "XRP", Price: 0.62, Change24h: -0.89},
		{ID: "dogecoin", Name: "Dogecoin", Symbol: "DOGE", Price: 0.15, Change24h: 3.45},
		{ID: "polkadot", Name: "Polkadot", Symbol: "DOT", Price: 8.23, Change24h: -2.10},
		{ID: "litecoin", Name: "Litecoin", Symbol: "LTC", Price: 86.45, Change24h: 0.78},
		{ID: "chainlink", Name: "Chainlink", Symbol: "LINK", Price: 18.90, Change24h: 4.20},
	}
}

// Clone returns a deep copy, history included.
func (in *Instrument) Clone() Instrument {
	out := *in
	out.History = make([]PricePoint, len(in.History))
	copy(out.History, in.History)
	return out
}
