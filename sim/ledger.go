package sim

import "fmt"

// Ledger is the single source of truth for cash and realized PNL.
// It is owned by the engine and guarded by the engine's lock.
type Ledger struct {
	spot     float64
	margin   float64
	realized float64
}

func NewLedger(spot, margin float64) *Ledger {
	return &Ledger{spot: spot, margin: margin}
}

func (l *Ledger) Spot() float64     { return l.spot }
func (l *Ledger) Margin() float64   { return l.margin }
func (l *Ledger) Realized() float64 { return l.realized }

// active returns the balance a given trading mode settles against.
func (l *Ledger) active(mode Mode) float64 {
	if mode == ModeSpot {
		return l.spot
	}
	return l.margin
}

func (l *Ledger) Credit(mode Mode, amount float64) {
	if mode == ModeSpot {
		l.spot += amount
	} else {
		l.margin += amount
	}
}

// Debit removes amount from the mode's balance. Callers pre-validate
// funds before settling; a debit that would go negative means that
// check was skipped, so the invariant failure is reported rather than
// applied.
func (l *Ledger) Debit(mode Mode, amount float64) error {
	if amount > l.active(mode) {
		return fmt.Errorf("debit %.2f from %s balance %.2f: %w",
			amount, mode, l.active(mode), ErrInsufficientFunds)
	}
	if mode == ModeSpot {
		l.spot -= amount
	} else {
		l.margin -= amount
	}
	return nil
}

func (l *Ledger) AddRealized(delta float64) {
	l.realized += delta
}

// WipeMargin zeroes the margin balance on liquidation.
func (l *Ledger) WipeMargin() {
	l.margin = 0
}

// Restore overwrites balances from persisted state.
func (l *Ledger) Restore(spot, margin float64) {
	l.spot = spot
	l.margin = margin
}
