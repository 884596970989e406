package sim

import (
	"time"

	"github.com/rustyeddy/cryptosim/journal"
	"github.com/rustyeddy/cryptosim/market"
)

// Snapshot is a deep copy of the engine's observable state at one
// instant. Mutating it never touches the engine.
type Snapshot struct {
	Time time.Time `json:"time"`
	Mode Mode      `json:"mode"`

	SpotBalance    float64 `json:"balance"`
	MarginBalance  float64 `json:"marginBalance"`
	RealizedPNL    float64 `json:"realizedPnl"`
	UnrealizedPNL  float64 `json:"unrealizedPnl"`
	HoldingsValue  float64 `json:"holdingsValue"`
	PortfolioValue float64 `json:"portfolioValue"`
	Liquidated     bool    `json:"liquidated"`

	Instruments  []market.Instrument   `json:"instruments"`
	OpenOrders   []Order               `json:"openOrders"`
	TradeHistory []journal.TradeRecord `json:"tradeHistory"`
	Alerts       []Alert               `json:"alerts"`
}

// Snapshot captures the current state. Portfolio value is the spot
// balance plus the mark value of all holdings.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	holdings := e.holdingsValueLocked()
	snap := Snapshot{
		Time:           e.now(),
		Mode:           e.mode,
		SpotBalance:    e.ledger.Spot(),
		MarginBalance:  e.ledger.Margin(),
		RealizedPNL:    e.ledger.Realized(),
		UnrealizedPNL:  unrealizedPNL(e.instruments, e.history),
		HoldingsValue:  holdings,
		PortfolioValue: e.ledger.Spot() + holdings,
		Liquidated:     e.monitor.Liquidated(),
		Instruments:    make([]market.Instrument, 0, len(e.instruments)),
		OpenOrders:     make([]Order, 0, len(e.open)),
		TradeHistory:   append([]journal.TradeRecord(nil), e.history...),
		Alerts:         e.alerts.list(),
	}
	for _, inst := range e.instruments {
		snap.Instruments = append(snap.Instruments, inst.Clone())
	}
	for _, o := range e.open {
		snap.OpenOrders = append(snap.OpenOrders, cloneOrder(o))
	}
	return snap
}

// Restore rewinds the engine to persisted state: balances, the trade
// log, and any orders still open. Instruments keep their current
// prices; holdings are rebuilt from the trade log.
func (e *Engine) Restore(spot, margin float64, trades []journal.TradeRecord, orders []Order) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ledger.Restore(spot, margin)
	e.history = append([]journal.TradeRecord(nil), trades...)

	for _, inst := range e.instruments {
		inst.Owned = 0
	}
	for _, t := range e.history {
		inst, ok := e.bySymbol[t.Symbol]
		if !ok {
			continue
		}
		if t.Side == string(SideBuy) {
			inst.Owned += t.Units
		} else {
			inst.Owned -= t.Units
		}
	}

	e.open = e.open[:0]
	for _, o := range orders {
		if o.Status != StatusOpen {
			continue
		}
		c := cloneOrder(&o)
		e.open = append(e.open, &c)
	}
}

func cloneOrder(o *Order) Order {
	c := *o
	if o.StopLoss != nil {
		v := *o.StopLoss
		c.StopLoss = &v
	}
	if o.TakeProfit != nil {
		v := *o.TakeProfit
		c.TakeProfit = &v
	}
	return c
}
