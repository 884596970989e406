package sim

import (
	"testing"

	"github.com/rustyeddy/cryptosim/journal"
	"github.com/rustyeddy/cryptosim/market"
)

func TestEntryPriceFirstMatch(t *testing.T) {
	trades := []journal.TradeRecord{
		{Symbol: "SOL", Price: 140},
		{Symbol: "BTC", Price: 60000},
		{Symbol: "BTC", Price: 70000},
	}

	if got := entryPrice(trades, "BTC", 65000); got != 60000 {
		t.Errorf("entry = %v, want first trade price 60000", got)
	}
	if got := entryPrice(trades, "DOGE", 0.15); got != 0.15 {
		t.Errorf("entry = %v, want current price fallback 0.15", got)
	}
}

func TestUnrealizedPNL(t *testing.T) {
	instruments := []*market.Instrument{
		{Symbol: "BTC", Price: 70000, Owned: 2},
		{Symbol: "SOL", Price: 150, Owned: 0}, // no holdings, no contribution
		{Symbol: "DOGE", Price: 0.10, Owned: 1000},
	}
	trades := []journal.TradeRecord{
		{Symbol: "BTC", Price: 60000},
		{Symbol: "DOGE", Price: 0.15},
	}

	// BTC: 2 * (70000-60000) = 20000; DOGE: 1000 * (0.10-0.15) = -50.
	if got := unrealizedPNL(instruments, trades); !approxEqual(got, 19950, 1e-9) {
		t.Errorf("unrealized = %v, want 19950", got)
	}
}

func TestUnrealizedPNLWithoutTradesIsZero(t *testing.T) {
	instruments := []*market.Instrument{{Symbol: "BTC", Price: 70000, Owned: 3}}

	if got := unrealizedPNL(instruments, nil); got != 0 {
		t.Errorf("unrealized = %v, want 0 without an entry basis", got)
	}
}
