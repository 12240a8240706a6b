package search

import (
	"sync"
	"time"
)

// DefaultDebounce is the idle window for keystroke-driven search.
const DefaultDebounce = 150 * time.Millisecond

// Debouncer coalesces rapid triggers so only the last query within an
// idle window executes. A new trigger replaces the pending one; it
// never aborts a callback that already started. This is a UX control
// for interactive input; direct Engine calls bypass it entirely.
type Debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
	fn    func(query string)
}

// NewDebouncer creates a Debouncer invoking fn after delay of
// inactivity. A non-positive delay falls back to DefaultDebounce.
func NewDebouncer(delay time.Duration, fn func(query string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger schedules fn(query), cancelling any pending trigger.
func (d *Debouncer) Trigger(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.fn(query)
	})
}

// Stop cancels any pending trigger.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
