package sim

import (
	"errors"
	"time"
)

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

type OrderKind string

const (
	KindMarket OrderKind = "market"
	KindLimit  OrderKind = "limit"
)

// OrderStatus transitions open -> filled or open -> cancelled only;
// filled and cancelled are terminal.
type OrderStatus string

const (
	StatusOpen      OrderStatus = "open"
	StatusFilled    OrderStatus = "filled"
	StatusCancelled OrderStatus = "cancelled"
)

// Mode selects which cash balance settles fills.
type Mode string

const (
	ModeSpot    Mode = "spot"
	ModeMargin  Mode = "margin"
	ModeFutures Mode = "futures"
)

// Validation failures. These are local to the violating operation and
// leave all other state untouched.
var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidLimitPrice    = errors.New("invalid limit price")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrInvalidAlertTarget   = errors.New("invalid alert target")
	ErrUnknownInstrument    = errors.New("unknown instrument")
	ErrOrderNotFound        = errors.New("order not found")
)

// Order is created by PlaceOrder and mutated only by the engine.
type Order struct {
	ID         string      `json:"id"`
	Side       Side        `json:"side"`
	Kind       OrderKind   `json:"kind"`
	Symbol     string      `json:"symbol"`
	Quantity   float64     `json:"quantity"` // instrument units
	Price      float64     `json:"price"`    // limit price, or fill price once filled
	Leverage   float64     `json:"leverage"`
	StopLoss   *float64    `json:"stop_loss,omitempty"`
	TakeProfit *float64    `json:"take_profit,omitempty"`
	Status     OrderStatus `json:"status"`
	Created    time.Time   `json:"created"`
}

// OrderRequest describes a placement. For buys, Amount is notional
// cash in the quote currency and is converted to units at the
// effective price; for sells it is instrument units.
type OrderRequest struct {
	Side       Side
	Symbol     string
	Amount     float64
	Kind       OrderKind
	LimitPrice float64
	Leverage   float64
	StopLoss   *float64
	TakeProfit *float64
}

func hitStopLoss(o *Order, price float64) bool {
	return o.StopLoss != nil && price <= *o.StopLoss
}

func hitTakeProfit(o *Order, price float64) bool {
	return o.TakeProfit != nil && price >= *o.TakeProfit
}

// limitTriggered reports whether a resting limit order crosses at
// price: buys fill once the market falls to or below the limit,
// sells once it rises to or above.
func limitTriggered(o *Order, price float64) bool {
	if o.Side == SideBuy {
		return price <= o.Price
	}
	return price >= o.Price
}
