// Package timer implements the deadline-ordered callback registry driving all
// time-based behavior: seek debouncing, periodic progress parsing, transient
// status expiry.
package timer

import "time"

// Interval is the sleep bound returned while entries remain pending.
const Interval = 200 * time.Millisecond

// ID identifies a scheduled callback. Ids increase monotonically and are
// never reused within a run.
type ID uint64

// Callback is invoked once when its deadline elapses.
type Callback func()

type entry struct {
	fn       Callback
	deadline time.Time
}

// Scheduler is a single-threaded cooperative timer queue. It is driven
// exclusively from the event loop; no internal goroutines, no locking.
type Scheduler struct {
	next    ID
	entries map[ID]entry
}

// New creates an empty scheduler.
func New() *Scheduler {
	return &Scheduler{entries: make(map[ID]entry)}
}

// Add registers fn to fire after delay and returns its cancellation id.
func (s *Scheduler) Add(delay time.Duration, fn Callback) ID {
	s.next++
	s.entries[s.next] = entry{fn: fn, deadline: time.Now().Add(delay)}
	return s.next
}

// AddAt registers fn with an explicit deadline.
func (s *Scheduler) AddAt(deadline time.Time, fn Callback) ID {
	s.next++
	s.entries[s.next] = entry{fn: fn, deadline: deadline}
	return s.next
}

// Cancel removes a pending callback. Canceling an unknown or already-fired
// id is a no-op.
func (s *Scheduler) Cancel(id ID) {
	delete(s.entries, id)
}

// Len returns the number of pending callbacks.
func (s *Scheduler) Len() int {
	return len(s.entries)
}

// Tick fires and removes every entry whose deadline has elapsed at now.
// Iteration order among due entries is unspecified; callbacks must not
// depend on firing order. It returns the sleep bound for the caller: a
// short fixed interval while entries remain, or idle=true when the caller
// may block indefinitely on other input.
func (s *Scheduler) Tick(now time.Time) (next time.Duration, idle bool) {
	// Entries are removed before their callback runs so a callback may
	// re-add itself for periodic work.
	var due []Callback
	for id, e := range s.entries {
		if !now.Before(e.deadline) {
			due = append(due, e.fn)
			delete(s.entries, id)
		}
	}
	for _, fn := range due {
		fn()
	}

	if len(s.entries) == 0 {
		return 0, true
	}
	return Interval, false
}
