package sim

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rustyeddy/cryptosim/journal"
	"github.com/rustyeddy/cryptosim/market"
	"github.com/rustyeddy/cryptosim/pkg/id"
)

// DefaultFeeRate is charged on every fill's notional.
const DefaultFeeRate = 0.001

// Engine owns all mutable simulation state: instruments, cash, the
// open-order set, alerts, and the trade log. Every mutation runs
// under one lock, so ticks and placements serialize no matter how the
// caller schedules them.
type Engine struct {
	mu sync.Mutex

	feed        *market.Feed
	instruments []*market.Instrument
	bySymbol    map[string]*market.Instrument

	ledger  *Ledger
	mode    Mode
	feeRate float64

	open    []*Order
	history []journal.TradeRecord

	alerts  alertBook
	monitor *LiquidationMonitor

	journal journal.Journal
	now     func() time.Time
}

// Options configures a new engine. Zero values fall back to defaults:
// the built-in instrument catalog, a time-seeded feed, an in-memory
// journal, spot mode, and DefaultFeeRate.
type Options struct {
	SpotBalance          float64
	MarginBalance        float64
	FeeRate              float64
	Mode                 Mode
	LiquidationThreshold float64

	Instruments []*market.Instrument
	Feed        *market.Feed
	Journal     journal.Journal
	SeedPoints  int

	// Now is the engine clock; tests inject a fixed one.
	Now func() time.Time
}

func NewEngine(opts Options) *Engine {
	feed := opts.Feed
	if feed == nil {
		feed = market.NewFeed(rand.NewSource(time.Now().UnixNano()))
	}
	instruments := opts.Instruments
	if instruments == nil {
		instruments = market.Seed()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	j := opts.Journal
	if j == nil {
		j = journal.NewMemory()
	}
	mode := opts.Mode
	if mode == "" {
		mode = ModeSpot
	}
	feeRate := opts.FeeRate
	if feeRate <= 0 {
		feeRate = DefaultFeeRate
	}

	e := &Engine{
		feed:        feed,
		instruments: instruments,
		bySymbol:    make(map[string]*market.Instrument, len(instruments)),
		ledger:      NewLedger(opts.SpotBalance, opts.MarginBalance),
		mode:        mode,
		feeRate:     feeRate,
		monitor:     NewLiquidationMonitor(opts.LiquidationThreshold),
		journal:     j,
		now:         now,
	}
	for _, inst := range instruments {
		e.bySymbol[inst.Symbol] = inst
		if len(inst.History) == 0 {
			feed.SeedHistory(inst, opts.SeedPoints, e.now())
		}
	}
	return e
}

func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// SetMode switches the active trading mode; subsequent fills settle
// against the matching balance.
func (e *Engine) SetMode(m Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = m
}

func (e *Engine) Liquidated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.monitor.Liquidated()
}

// Tick advances the simulation one interval: every instrument gets a
// feed tick, then its open orders are swept, then its alerts are
// evaluated. A balance snapshot is journaled at the end. The returned
// events are everything that fired, in order.
func (e *Engine) Tick() ([]Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	var events []Event

	for _, inst := range e.instruments {
		e.feed.Tick(inst, now)

		acted, err := e.sweepOrdersLocked(inst, now)
		events = append(events, acted...)
		if err != nil {
			return events, err
		}

		for _, fired := range e.alerts.evaluate(inst.Symbol, inst.Price) {
			f := fired
			events = append(events, Event{
				Type:   EventAlert,
				Time:   now,
				Symbol: inst.Symbol,
				Price:  inst.Price,
				Reason: string(f.Direction),
				Alert:  &f,
			})
		}
	}

	if err := e.recordBalanceLocked(now); err != nil {
		return events, err
	}
	return events, nil
}

// PlaceOrder validates and either settles (market) or queues (limit)
// an order. Market settlement is synchronous: the returned events
// carry the fill and any liquidation it caused.
func (e *Engine) PlaceOrder(req OrderRequest) (*Order, []Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	inst, ok := e.bySymbol[req.Symbol]
	if !ok {
		return nil, nil, fmt.Errorf("place order %q: %w", req.Symbol, ErrUnknownInstrument)
	}
	if req.Side != SideBuy && req.Side != SideSell {
		return nil, nil, fmt.Errorf("place order: unknown side %q", req.Side)
	}
	if !(req.Amount > 0) || math.IsInf(req.Amount, 0) {
		return nil, nil, fmt.Errorf("place order amount %v: %w", req.Amount, ErrInvalidAmount)
	}
	kind := req.Kind
	if kind == "" {
		kind = KindMarket
	}
	if kind == KindLimit && (!(req.LimitPrice > 0) || math.IsInf(req.LimitPrice, 0)) {
		return nil, nil, fmt.Errorf("place order limit price %v: %w", req.LimitPrice, ErrInvalidLimitPrice)
	}

	if math.IsNaN(req.Leverage) || math.IsInf(req.Leverage, 0) {
		return nil, nil, fmt.Errorf("place order leverage %v: %w", req.Leverage, ErrInvalidAmount)
	}
	leverage := req.Leverage
	if leverage < 1 {
		leverage = 1
	}
	price := inst.Price
	if kind == KindLimit {
		price = req.LimitPrice
	}
	quantity := req.Amount
	if req.Side == SideBuy {
		quantity = req.Amount / price
	}

	notional := quantity * price * leverage
	fee := notional * e.feeRate
	if req.Side == SideBuy {
		if notional+fee > e.ledger.active(e.mode) {
			return nil, nil, fmt.Errorf("place order needs %.2f, %s balance %.2f: %w",
				notional+fee, e.mode, e.ledger.active(e.mode), ErrInsufficientFunds)
		}
	} else if quantity > inst.Owned {
		return nil, nil, fmt.Errorf("sell %v %s, own %v: %w",
			quantity, inst.Symbol, inst.Owned, ErrInsufficientHoldings)
	}

	now := e.now()
	o := &Order{
		ID:         id.New(),
		Side:       req.Side,
		Kind:       kind,
		Symbol:     req.Symbol,
		Quantity:   quantity,
		Price:      price,
		Leverage:   leverage,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		Status:     StatusOpen,
		Created:    now,
	}

	if kind == KindMarket {
		o.Status = StatusFilled
		events, err := e.settleLocked(o.Side, inst, quantity, price, leverage, o, now, ReasonMarket)
		if err != nil {
			return nil, events, err
		}
		return o, events, nil
	}

	e.open = append(e.open, o)
	return o, nil, nil
}

// CancelOrder removes an open limit order. Filled and cancelled
// orders are terminal and cannot be cancelled again.
func (e *Engine) CancelOrder(orderID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, o := range e.open {
		if o.ID == orderID {
			e.removeOpenLocked(o)
			o.Status = StatusCancelled
			return nil
		}
	}
	return fmt.Errorf("cancel order %q: %w", orderID, ErrOrderNotFound)
}

// AddAlert registers a one-shot price alert for an instrument.
func (e *Engine) AddAlert(symbol string, target float64, dir AlertDirection) (Alert, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.bySymbol[symbol]; !ok {
		return Alert{}, fmt.Errorf("add alert %q: %w", symbol, ErrUnknownInstrument)
	}
	return e.alerts.add(symbol, target, dir)
}

// RemoveAlert is idempotent.
func (e *Engine) RemoveAlert(alertID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.alerts.remove(alertID)
}

// Book returns synthetic depth around an instrument's current price.
func (e *Engine) Book(symbol string, levels int) (market.Book, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	inst, ok := e.bySymbol[symbol]
	if !ok {
		return market.Book{}, fmt.Errorf("book %q: %w", symbol, ErrUnknownInstrument)
	}
	return e.feed.Book(inst, levels), nil
}

// sweepOrdersLocked applies at most one terminal action per open
// order against the instrument's new price: stop-loss, then
// take-profit, then limit trigger. Handlers remove the order from the
// open set, and a settlement can liquidate the whole book mid-sweep,
// so the set is re-read each step rather than iterated by range.
func (e *Engine) sweepOrdersLocked(inst *market.Instrument, now time.Time) ([]Event, error) {
	var events []Event

	i := 0
	for i < len(e.open) {
		o := e.open[i]
		if o.Symbol != inst.Symbol {
			i++
			continue
		}

		var acted []Event
		var err error
		switch {
		case hitStopLoss(o, inst.Price):
			acted, err = e.forceCloseLocked(o, inst, now, ReasonStopLoss)
		case hitTakeProfit(o, inst.Price):
			acted, err = e.forceCloseLocked(o, inst, now, ReasonTakeProfit)
		case limitTriggered(o, inst.Price):
			acted, err = e.fillLimitLocked(o, inst, now)
		default:
			i++
			continue
		}
		events = append(events, acted...)
		if err != nil {
			return events, err
		}
	}
	return events, nil
}

// fillLimitLocked settles a triggered limit order at its limit price.
// Funds and holdings are re-validated here: balances may have moved
// since placement, and a fill must never push them negative. A fill
// that would is cancelled instead.
func (e *Engine) fillLimitLocked(o *Order, inst *market.Instrument, now time.Time) ([]Event, error) {
	e.removeOpenLocked(o)

	notional := o.Quantity * o.Price * o.Leverage
	fee := notional * e.feeRate

	if o.Side == SideBuy && notional+fee > e.ledger.active(e.mode) {
		o.Status = StatusCancelled
		return []Event{e.cancelEventLocked(o, inst, now, ReasonInsufficientFunds)}, nil
	}
	if o.Side == SideSell && o.Quantity > inst.Owned {
		o.Status = StatusCancelled
		return []Event{e.cancelEventLocked(o, inst, now, ReasonInsufficientHoldings)}, nil
	}

	o.Status = StatusFilled
	return e.settleLocked(o.Side, inst, o.Quantity, o.Price, o.Leverage, o, now, ReasonLimit)
}

// forceCloseLocked closes out an open order as a sell at the current
// price when its stop-loss or take-profit trigger hits. The close is
// clamped to current holdings; with nothing held the order is
// cancelled rather than selling short.
func (e *Engine) forceCloseLocked(o *Order, inst *market.Instrument, now time.Time, reason string) ([]Event, error) {
	e.removeOpenLocked(o)

	quantity := o.Quantity
	if quantity > inst.Owned {
		quantity = inst.Owned
	}
	if quantity <= 0 {
		o.Status = StatusCancelled
		return []Event{e.cancelEventLocked(o, inst, now, reason)}, nil
	}

	o.Status = StatusFilled
	return e.settleLocked(SideSell, inst, quantity, inst.Price, o.Leverage, o, now, reason)
}

// settleLocked executes one fill: holdings, cash, realized PNL, the
// trade log, and — in margin or futures mode — a post-settlement
// liquidation check.
func (e *Engine) settleLocked(side Side, inst *market.Instrument, quantity, price, leverage float64, o *Order, now time.Time, reason string) ([]Event, error) {
	notional := quantity * price * leverage
	fee := notional * e.feeRate

	if side == SideBuy {
		if err := e.ledger.Debit(e.mode, notional+fee); err != nil {
			return nil, fmt.Errorf("settle %s: %w", o.ID, err)
		}
		inst.Owned += quantity
	} else {
		net := notional - fee
		inst.Owned -= quantity
		e.ledger.Credit(e.mode, net)
		e.ledger.AddRealized(net - notional)
	}

	rec := journal.TradeRecord{
		TradeID:  o.ID,
		Side:     string(side),
		Symbol:   inst.Symbol,
		Units:    quantity,
		Price:    price,
		Leverage: leverage,
		Fee:      fee,
		Total:    notional,
		Time:     now,
	}
	e.history = append(e.history, rec)
	if err := e.journal.RecordTrade(rec); err != nil {
		return nil, fmt.Errorf("journal trade %s: %w", rec.TradeID, err)
	}

	events := []Event{{
		Type:   EventFill,
		Time:   now,
		Symbol: inst.Symbol,
		Price:  price,
		Reason: reason,
		Order:  o,
		Trade:  &rec,
	}}

	if e.mode == ModeMargin || e.mode == ModeFutures {
		if e.monitor.Check(e.mode, e.holdingsValueLocked(), e.ledger.Margin()) {
			events = append(events, e.liquidateLocked(now))
		}
	}
	return events, nil
}

// liquidateLocked wipes the margin session: margin cash to zero, all
// holdings to zero, open orders cleared. Terminal; the monitor never
// trips again this session.
func (e *Engine) liquidateLocked(now time.Time) Event {
	e.ledger.WipeMargin()
	for _, inst := range e.instruments {
		inst.Owned = 0
	}
	for _, o := range e.open {
		o.Status = StatusCancelled
	}
	e.open = nil

	return Event{Type: EventLiquidation, Time: now, Reason: ReasonLiquidation}
}

func (e *Engine) removeOpenLocked(o *Order) {
	for i, cand := range e.open {
		if cand == o {
			e.open = append(e.open[:i], e.open[i+1:]...)
			return
		}
	}
}

func (e *Engine) cancelEventLocked(o *Order, inst *market.Instrument, now time.Time, reason string) Event {
	return Event{
		Type:   EventCancel,
		Time:   now,
		Symbol: inst.Symbol,
		Price:  inst.Price,
		Reason: reason,
		Order:  o,
	}
}

func (e *Engine) holdingsValueLocked() float64 {
	var total float64
	for _, inst := range e.instruments {
		total += inst.Owned * inst.Price
	}
	return total
}

func (e *Engine) recordBalanceLocked(now time.Time) error {
	return e.journal.RecordBalance(journal.BalanceSnapshot{
		Time:          now,
		Spot:          e.ledger.Spot(),
		Margin:        e.ledger.Margin(),
		Realized:      e.ledger.Realized(),
		Unrealized:    unrealizedPNL(e.instruments, e.history),
		HoldingsValue: e.holdingsValueLocked(),
	})
}
