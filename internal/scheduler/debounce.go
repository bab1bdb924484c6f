package scheduler

import (
	"sync"
	"time"

	"jjc-attendance/internal/clockevent"
)

// Debouncer coalesces bursts of attendance changes into one flush per quiet
// period. A kiosk queue scanning badges at shift change produces dozens of
// changes in seconds; the flush fires once, after the burst goes quiet.
type Debouncer struct {
	clock Clock
	quiet time.Duration
	flush func(keys []clockevent.DayKey)

	mu      sync.Mutex
	pending map[clockevent.DayKey]bool
	armed   bool
}

func NewDebouncer(clock Clock, quiet time.Duration, flush func(keys []clockevent.DayKey)) *Debouncer {
	return &Debouncer{
		clock:   clock,
		quiet:   quiet,
		flush:   flush,
		pending: map[clockevent.DayKey]bool{},
	}
}

// Add records a changed employee-day and arms the quiet timer if it is not
// already running. Later changes during the quiet period join the same flush.
func (d *Debouncer) Add(key clockevent.DayKey) {
	d.mu.Lock()
	d.pending[key] = true
	if d.armed {
		d.mu.Unlock()
		return
	}
	d.armed = true
	timer := d.clock.After(d.quiet)
	d.mu.Unlock()

	go func() {
		<-timer
		d.Flush()
	}()
}

// Flush hands every pending key to the flush callback and disarms the timer.
// Safe to call directly, for shutdown or manual triggers.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	d.armed = false
	if len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	keys := make([]clockevent.DayKey, 0, len(d.pending))
	for k := range d.pending {
		keys = append(keys, k)
	}
	d.pending = map[clockevent.DayKey]bool{}
	d.mu.Unlock()

	d.flush(keys)
}

// Pending reports how many employee-days are waiting for the next flush.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
