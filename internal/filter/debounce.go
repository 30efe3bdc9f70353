package filter

import "time"

// DefaultDebounce is the input quiet period before search text propagates.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer delays a value until input has been quiet for its delay. It has no
// goroutines or timers of its own: Push hands back a ticket and the caller
// schedules Fire on its event loop. Only the newest ticket can fire.
type Debouncer struct {
	delay    time.Duration
	seq      uint64
	pending  bool
	value    string
	deadline time.Time
}

// NewDebouncer returns a Debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Push records value and supersedes any pending ticket. The caller should call
// Fire with the returned seq after wait has elapsed.
func (d *Debouncer) Push(value string, now time.Time) (seq uint64, wait time.Duration) {
	d.seq++
	d.pending = true
	d.value = value
	d.deadline = now.Add(d.delay)
	return d.seq, d.delay
}

// Fire returns the pending value if seq is the newest ticket and its quiet
// period has elapsed at now.
func (d *Debouncer) Fire(seq uint64, now time.Time) (string, bool) {
	if !d.pending || seq != d.seq || now.Before(d.deadline) {
		return "", false
	}
	d.pending = false
	return d.value, true
}

// Cancel drops the pending value. Outstanding tickets become stale.
func (d *Debouncer) Cancel() {
	d.pending = false
	d.seq++
}

// Pending reports whether a value is waiting to propagate.
func (d *Debouncer) Pending() bool {
	return d.pending
}
