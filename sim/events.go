package sim

import (
	"time"

	"github.com/rustyeddy/cryptosim/journal"
)

type EventType string

const (
	EventFill        EventType = "fill"
	EventCancel      EventType = "cancel"
	EventAlert       EventType = "alert"
	EventLiquidation EventType = "liquidation"
)

// Fill and cancel reasons.
const (
	ReasonMarket               = "market"
	ReasonLimit                = "limit"
	ReasonStopLoss             = "stop_loss"
	ReasonTakeProfit           = "take_profit"
	ReasonUserCancel           = "user_cancel"
	ReasonInsufficientFunds    = "insufficient_funds"
	ReasonInsufficientHoldings = "insufficient_holdings"
	ReasonLiquidation          = "liquidation"
)

// Event is one thing the engine did during a tick or settlement.
type Event struct {
	Type   EventType
	Time   time.Time
	Symbol string
	Price  float64
	Reason string

	Order *Order               // fills and cancels
	Trade *journal.TradeRecord // fills
	Alert *Alert               // alerts
}
