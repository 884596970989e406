package sim

// DefaultLiquidationThreshold is the maintenance fraction of the
// margin balance that holdings value must stay above. Given business
// logic; do not tune without product input.
const DefaultLiquidationThreshold = 0.1

// LiquidationMonitor enforces margin-mode solvency. It moves from
// healthy to liquidated exactly once per session; the wipe itself is
// performed by the engine. A margin call is a modeled business
// outcome, reported as an event, never an error.
type LiquidationMonitor struct {
	threshold  float64
	liquidated bool
}

func NewLiquidationMonitor(threshold float64) *LiquidationMonitor {
	if threshold <= 0 {
		threshold = DefaultLiquidationThreshold
	}
	return &LiquidationMonitor{threshold: threshold}
}

// Check reports whether the margin book must be liquidated now.
// It returns true at most once; after that the monitor is terminal
// and further checks are no-ops.
func (m *LiquidationMonitor) Check(mode Mode, holdingsValue, marginBalance float64) bool {
	if m.liquidated {
		return false
	}
	if mode != ModeMargin && mode != ModeFutures {
		return false
	}
	if holdingsValue >= marginBalance*m.threshold {
		return false
	}
	m.liquidated = true
	return true
}

func (m *LiquidationMonitor) Liquidated() bool { return m.liquidated }
