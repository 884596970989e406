package sim

import (
	"errors"
	"testing"
)

func TestLedgerCreditDebitPerMode(t *testing.T) {
	l := NewLedger(1000, 500)

	l.Credit(ModeSpot, 100)
	l.Credit(ModeMargin, 50)
	if l.Spot() != 1100 || l.Margin() != 550 {
		t.Errorf("balances = %v/%v, want 1100/550", l.Spot(), l.Margin())
	}

	if err := l.Debit(ModeSpot, 600); err != nil {
		t.Fatalf("debit spot: %v", err)
	}
	if err := l.Debit(ModeFutures, 550); err != nil {
		t.Fatalf("debit futures: %v", err)
	}
	if l.Spot() != 500 || l.Margin() != 0 {
		t.Errorf("balances = %v/%v, want 500/0", l.Spot(), l.Margin())
	}
}

func TestLedgerDebitRejectsOverdraft(t *testing.T) {
	l := NewLedger(100, 100)

	err := l.Debit(ModeSpot, 100.01)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if l.Spot() != 100 {
		t.Errorf("failed debit moved balance to %v", l.Spot())
	}
}

func TestLedgerRealized(t *testing.T) {
	l := NewLedger(0, 0)

	l.AddRealized(-100)
	l.AddRealized(250)
	if l.Realized() != 150 {
		t.Errorf("realized = %v, want 150", l.Realized())
	}
}

func TestLedgerWipeMarginLeavesSpot(t *testing.T) {
	l := NewLedger(1000, 500)

	l.WipeMargin()
	if l.Margin() != 0 {
		t.Errorf("margin = %v, want 0", l.Margin())
	}
	if l.Spot() != 1000 {
		t.Errorf("spot = %v, want 1000", l.Spot())
	}
}

func TestLedgerRestore(t *testing.T) {
	l := NewLedger(1, 2)
	l.AddRealized(50)

	l.Restore(1000, 2000)
	if l.Spot() != 1000 || l.Margin() != 2000 {
		t.Errorf("balances = %v/%v, want 1000/2000", l.Spot(), l.Margin())
	}
	if l.Realized() != 50 {
		t.Errorf("restore touched realized: %v", l.Realized())
	}
}
