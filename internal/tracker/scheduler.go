package tracker

import (
	"time"

	"token-tracker/internal/observability"
)

// nextDelay draws the delay before the next tick, uniform in [minDelay, maxDelay).
func (t *Tracker) nextDelay() time.Duration {
	span := float64(t.maxDelay - t.minDelay)
	return t.minDelay + time.Duration(t.rng.Float64()*span)
}

// scheduleLocked arms a one-shot timer for the next tick. Caller holds mu.
func (t *Tracker) scheduleLocked() {
	if t.timer != nil {
		t.timer.Stop()
	}

	t.epoch++
	epoch := t.epoch
	delay := t.nextDelay()

	observability.RecordTickDelay(delay.Seconds())
	t.timer = time.AfterFunc(delay, func() { t.fire(epoch) })
}

// stopLocked cancels the pending tick. Caller holds mu.
// A timer that already fired and is waiting on mu sees a stale epoch and
// returns without ticking.
func (t *Tracker) stopLocked() {
	t.epoch++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// fire runs a scheduled tick and re-arms the timer with a fresh delay.
func (t *Tracker) fire(epoch uint64) {
	t.mu.Lock()
	if !t.running || epoch != t.epoch {
		t.mu.Unlock()
		return
	}

	t.tickLocked()
	t.scheduleLocked()
	t.publishLocked()
}
