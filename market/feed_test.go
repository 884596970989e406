package market

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

func testFeed() *Feed {
	return NewFeed(rand.NewSource(7))
}

func TestSeedHistoryShapeAndSpread(t *testing.T) {
	f := testFeed()
	inst := &Instrument{Symbol: "BTC", Price: 65432.21}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	f.SeedHistory(inst, 31, now)

	if len(inst.History) != 31 {
		t.Fatalf("history len = %d, want 31", len(inst.History))
	}
	if inst.Price != 65432.21 {
		t.Errorf("seeding moved the current price to %v", inst.Price)
	}

	// Points are one day apart, oldest first, ending at now.
	if !inst.History[30].Time.Equal(now) {
		t.Errorf("last point at %v, want %v", inst.History[30].Time, now)
	}
	for i := 1; i < len(inst.History); i++ {
		gap := inst.History[i].Time.Sub(inst.History[i-1].Time)
		if gap != 24*time.Hour {
			t.Fatalf("gap between points %d and %d = %v, want 24h", i-1, i, gap)
		}
	}

	// Each price is the base perturbed by at most +/-5% scaled by 1.5.
	for i, p := range inst.History {
		dev := math.Abs(p.Price-inst.Price) / inst.Price
		if dev > 0.075 {
			t.Errorf("point %d deviates %.4f from base, beyond bound", i, dev)
		}
		if p.Price <= 0 {
			t.Errorf("point %d has non-positive price %v", i, p.Price)
		}
	}
}

func TestSeedHistoryDefaultsPoints(t *testing.T) {
	f := testFeed()
	inst := &Instrument{Symbol: "SOL", Price: 143.56}

	f.SeedHistory(inst, 0, time.Now())

	if len(inst.History) != DefaultSeedPoints {
		t.Errorf("history len = %d, want %d", len(inst.History), DefaultSeedPoints)
	}
}

func TestTickBoundsAndHistory(t *testing.T) {
	f := testFeed()
	inst := &Instrument{Symbol: "BTC", Price: 65432.21, Change24h: 2.34}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	prev := inst.Price
	for i := 0; i < 5000; i++ {
		now = now.Add(5 * time.Second)
		f.Tick(inst, now)

		step := math.Abs(inst.Price-prev) / prev
		if step > 0.01+1e-12 {
			t.Fatalf("tick %d moved price %.4f%%, beyond 1%%", i, step*100)
		}
		if inst.Price <= 0 {
			t.Fatalf("tick %d produced non-positive price %v", i, inst.Price)
		}
		if inst.Change24h > 10 || inst.Change24h < -10 {
			t.Fatalf("tick %d pushed change24h to %v", i, inst.Change24h)
		}
		prev = inst.Price
	}

	if len(inst.History) != DefaultHistoryCap {
		t.Errorf("history len = %d, want capped at %d", len(inst.History), DefaultHistoryCap)
	}
	last := inst.History[len(inst.History)-1]
	if last.Price != inst.Price || !last.Time.Equal(now) {
		t.Errorf("last history point %+v does not match current state", last)
	}
	for i := 1; i < len(inst.History); i++ {
		if inst.History[i].Time.Before(inst.History[i-1].Time) {
			t.Fatalf("history out of order at %d", i)
		}
	}
}

func TestTickRespectsCustomHistoryCap(t *testing.T) {
	f := testFeed()
	f.HistoryCap = 10
	inst := &Instrument{Symbol: "DOGE", Price: 0.15}

	now := time.Now()
	for i := 0; i < 50; i++ {
		now = now.Add(5 * time.Second)
		f.Tick(inst, now)
	}

	if len(inst.History) != 10 {
		t.Errorf("history len = %d, want 10", len(inst.History))
	}
}

func TestFeedDeterministicForSeed(t *testing.T) {
	a := NewFeed(rand.NewSource(99))
	b := NewFeed(rand.NewSource(99))

	ia := &Instrument{Symbol: "BTC", Price: 65432.21}
	ib := &Instrument{Symbol: "BTC", Price: 65432.21}
	now := time.Now()

	for i := 0; i < 100; i++ {
		a.Tick(ia, now)
		b.Tick(ib, now)
		if ia.Price != ib.Price {
			t.Fatalf("tick %d diverged: %v vs %v", i, ia.Price, ib.Price)
		}
	}
}

func TestBookLevels(t *testing.T) {
	f := testFeed()
	inst := &Instrument{Symbol: "BTC", Price: 65432.21}

	book := f.Book(inst, 5)

	if len(book.Bids) != 5 || len(book.Asks) != 5 {
		t.Fatalf("levels = %d/%d, want 5/5", len(book.Bids), len(book.Asks))
	}
	for i := range book.Bids {
		if book.Bids[i].Price >= inst.Price {
			t.Errorf("bid %d at %v not below mid %v", i, book.Bids[i].Price, inst.Price)
		}
		if book.Asks[i].Price <= inst.Price {
			t.Errorf("ask %d at %v not above mid %v", i, book.Asks[i].Price, inst.Price)
		}
		if book.Bids[i].Price <= 0 {
			t.Errorf("bid %d has non-positive price", i)
		}
		if i > 0 {
			if book.Bids[i].Price >= book.Bids[i-1].Price {
				t.Errorf("bids not descending at %d", i)
			}
			if book.Asks[i].Price <= book.Asks[i-1].Price {
				t.Errorf("asks not ascending at %d", i)
			}
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	inst := &Instrument{Symbol: "BTC", Price: 100, History: []PricePoint{{Price: 99}}}

	c := inst.Clone()
	c.Price = 1
	c.History[0].Price = 1

	if inst.Price != 100 || inst.History[0].Price != 99 {
		t.Errorf("clone mutation leaked into original: %+v", inst)
	}
}
