package market

import (
	"math/rand"
	"time"
)

const (
	// DefaultSeedPoints is how many history points a fresh instrument
	// starts with, one per day going backwards from now.
	DefaultSeedPoints = 31

	// DefaultHistoryCap bounds history length; the oldest point is
	// evicted once the cap is exceeded.
	DefaultHistoryCap = 100

	// DefaultInterval is the wall-clock spacing between ticks when the
	// feed is driven by a timer.
	DefaultInterval = 5 * time.Second

	// maxChange24h clamps the rolling 24h change percentage.
	maxChange24h = 10.0
)

// Feed generates synthetic price paths. All randomness comes from the
// injected source, so a seeded source reproduces the exact same path.
type Feed struct {
	rng        *rand.Rand
	HistoryCap int
}

// NewFeed returns a feed drawing from src. Tests pass a fixed-seed
// source to get deterministic sequences.
func NewFeed(src rand.Source) *Feed {
	return &Feed{
		rng:        rand.New(src),
		HistoryCap: DefaultHistoryCap,
	}
}

// SeedHistory populates inst.History with points backdated one day
// apart, ending at now. Each price is the instrument's base price
// perturbed by roughly +/-5%, scaled by an independent factor in
// [0.5, 1.5). The instrument's current price is left untouched.
func (f *Feed) SeedHistory(inst *Instrument, points int, now time.Time) {
	if points <= 0 {
		points = DefaultSeedPoints
	}

	history := make([]PricePoint, 0, points)
	for i := points - 1; i >= 0; i-- {
		swing := (f.rng.Float64()*10 - 5) / 100
		price := inst.Price * (1 + swing*(f.rng.Float64()+0.5))
		history = append(history, PricePoint{
			Time:  now.AddDate(0, 0, -i),
			Price: price,
		})
	}
	inst.History = history
}

// Tick advances the instrument by one interval: a uniform walk of up
// to +/-1% on price, a drift of up to +/-0.2 on the 24h change
// (clamped to +/-10), and one appended history point. Evicts the
// oldest history point once the cap is exceeded.
func (f *Feed) Tick(inst *Instrument, now time.Time) {
	delta := (f.rng.Float64()*2 - 1) / 100
	inst.Price *= 1 + delta

	inst.Change24h += f.rng.Float64()*0.4 - 0.2
	if inst.Change24h > maxChange24h {
		inst.Change24h = maxChange24h
	} else if inst.Change24h < -maxChange24h {
		inst.Change24h = -maxChange24h
	}

	limit := f.HistoryCap
	if limit <= 0 {
		limit = DefaultHistoryCap
	}
	inst.History = append(inst.History, PricePoint{Time: now, Price: inst.Price})
	if n := len(inst.History); n > limit {
		inst.History = append(inst.History[:0], inst.History[n-limit:]...)
	}
}
