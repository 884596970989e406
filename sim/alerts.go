package sim

import (
	"fmt"
	"math"

	"github.com/rustyeddy/cryptosim/pkg/id"
)

type AlertDirection string

const (
	AlertAbove AlertDirection = "above"
	AlertBelow AlertDirection = "below"
)

// Alert fires at most once: it is removed the moment its condition
// holds, or earlier by RemoveAlert.
type Alert struct {
	ID        string         `json:"id"`
	Symbol    string         `json:"symbol"`
	Target    float64        `json:"target"`
	Direction AlertDirection `json:"direction"`
}

func (a Alert) triggered(price float64) bool {
	if a.Direction == AlertAbove {
		return price >= a.Target
	}
	return price <= a.Target
}

// alertBook holds pending alerts. The engine's lock guards access.
type alertBook struct {
	alerts []Alert
}

func (b *alertBook) add(symbol string, target float64, dir AlertDirection) (Alert, error) {
	if target <= 0 || math.IsNaN(target) || math.IsInf(target, 0) {
		return Alert{}, fmt.Errorf("alert target %v: %w", target, ErrInvalidAlertTarget)
	}
	a := Alert{
		ID:        id.New(),
		Symbol:    symbol,
		Target:    target,
		Direction: dir,
	}
	b.alerts = append(b.alerts, a)
	return a, nil
}

// remove is idempotent; removing an unknown or already-fired alert is
// a no-op.
func (b *alertBook) remove(alertID string) {
	for i, a := range b.alerts {
		if a.ID == alertID {
			b.alerts = append(b.alerts[:i], b.alerts[i+1:]...)
			return
		}
	}
}

// evaluate fires and removes every alert on symbol whose condition
// holds at price, returning the fired alerts.
func (b *alertBook) evaluate(symbol string, price float64) []Alert {
	var fired []Alert
	kept := b.alerts[:0]
	for _, a := range b.alerts {
		if a.Symbol == symbol && a.triggered(price) {
			fired = append(fired, a)
			continue
		}
		kept = append(kept, a)
	}
	b.alerts = kept
	return fired
}

func (b *alertBook) list() []Alert {
	out := make([]Alert, len(b.alerts))
	copy(out, b.alerts)
	return out
}
