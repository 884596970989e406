package sim

import "testing"

func TestMonitorTripsBelowThreshold(t *testing.T) {
	m := NewLiquidationMonitor(0.1)

	if m.Check(ModeMargin, 100_000, 1_000_000) {
		t.Error("tripped at exactly the threshold")
	}
	if !m.Check(ModeMargin, 99_999, 1_000_000) {
		t.Error("did not trip below the threshold")
	}
	if !m.Liquidated() {
		t.Error("monitor not marked liquidated")
	}
}

func TestMonitorIsTerminal(t *testing.T) {
	m := NewLiquidationMonitor(0.1)

	if !m.Check(ModeMargin, 0, 1_000_000) {
		t.Fatal("first check did not trip")
	}
	if m.Check(ModeMargin, 0, 1_000_000) {
		t.Error("second check tripped again")
	}
}

func TestMonitorIgnoresSpotMode(t *testing.T) {
	m := NewLiquidationMonitor(0.1)

	if m.Check(ModeSpot, 0, 1_000_000) {
		t.Error("tripped in spot mode")
	}
	if m.Liquidated() {
		t.Error("marked liquidated in spot mode")
	}
}

func TestMonitorChecksFuturesMode(t *testing.T) {
	m := NewLiquidationMonitor(0.1)

	if !m.Check(ModeFutures, 0, 1_000_000) {
		t.Error("did not trip in futures mode")
	}
}

func TestMonitorDefaultThreshold(t *testing.T) {
	m := NewLiquidationMonitor(0)

	if m.threshold != DefaultLiquidationThreshold {
		t.Errorf("threshold = %v, want %v", m.threshold, DefaultLiquidationThreshold)
	}
}
