package sim

import (
	"github.com/rustyeddy/cryptosim/journal"
	"github.com/rustyeddy/cryptosim/market"
)

// entryPrice returns the PNL basis for a symbol: the price of the
// first recorded trade for it, or the current price when no trade
// exists (so untracked holdings contribute zero). This is the
// simulator's long-standing simplified basis, not a weighted-average
// cost.
func entryPrice(trades []journal.TradeRecord, symbol string, current float64) float64 {
	for _, t := range trades {
		if t.Symbol == symbol {
			return t.Price
		}
	}
	return current
}

// unrealizedPNL marks all nonzero holdings to the current price
// against their entry basis.
func unrealizedPNL(instruments []*market.Instrument, trades []journal.TradeRecord) float64 {
	var total float64
	for _, inst := range instruments {
		if inst.Owned == 0 {
			continue
		}
		entry := entryPrice(trades, inst.Symbol, inst.Price)
		total += inst.Owned * (inst.Price - entry)
	}
	return total
}
