package risk

import (
	"sync"
	"time"
)

// DayTracker accumulates realized profit and loss for the current UTC
// calendar day. The manager consults it for the daily-loss circuit
// breaker and rolls it over on the first evaluation of a new day.
type DayTracker struct {
	mu          sync.Mutex
	day         time.Time
	realizedPnL float64
}

func NewDayTracker(now time.Time) *DayTracker {
	return &DayTracker{day: dayOf(now)}
}

// RolloverIfNeeded resets the accumulator when now falls on a later
// UTC day than the one being tracked.
func (t *DayTracker) RolloverIfNeeded(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if day := dayOf(now); day.After(t.day) {
		t.day = day
		t.realizedPnL = 0
	}
}

// AddRealizedPnL records the realized outcome of a closed trade in
// account currency. Losses are negative.
func (t *DayTracker) AddRealizedPnL(amount float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.realizedPnL += amount
}

// RealizedPnL returns the running total for the tracked day.
func (t *DayTracker) RealizedPnL() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.realizedPnL
}

func dayOf(now time.Time) time.Time {
	return now.UTC().Truncate(24 * time.Hour)
}
