package scanflow

import (
	"sync"
	"time"
)

// Debouncer is a cancellable delayed action. Arming it replaces any pending
// action; a replaced or cancelled action never fires. It exists so scanner
// auto-submit timers are tracked handles with explicit teardown instead of
// free-floating timers.
type Debouncer struct {
	mu  sync.Mutex
	t   *time.Timer
	seq uint64
}

// Arm schedules fn after delay, cancelling any previously armed action.
func (d *Debouncer) Arm(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.t != nil {
		d.t.Stop()
	}
	d.seq++
	seq := d.seq
	d.t = time.AfterFunc(delay, func() {
		d.mu.Lock()
		stale := seq != d.seq
		d.mu.Unlock()
		// A stale fire lost the race with Stop; it must not submit.
		if stale {
			return
		}
		fn()
	})
}

// Cancel drops any pending action.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.t != nil {
		d.t.Stop()
		d.t = nil
	}
	d.seq++
}
