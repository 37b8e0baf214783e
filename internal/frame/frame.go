// Package frame provides the panel's frame scheduler: a single, explicit
// place where per-frame work (batched card creation, scroll animation steps,
// convergence re-sampling) and delayed work (debounces) is queued, run, and
// canceled.
//
// The scheduler has no event loop of its own. The owner drives it: the TUI
// steps it from tick messages at frame cadence, tests step it directly with
// a synthetic clock. Everything runs on the driving goroutine; the scheduler
// is not safe for concurrent use.
package frame

import "time"

// Handle identifies scheduled work so it can be canceled before it runs.
// Canceling an already-run or already-canceled handle is a no-op, and a nil
// handle is safe to cancel.
type Handle struct {
	fn       func()
	deadline time.Time // zero for next-frame tasks
	canceled bool
	done     bool
}

func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	h.canceled = true
}

// Active reports whether the work is still pending.
func (h *Handle) Active() bool {
	return h != nil && !h.canceled && !h.done
}

// Scheduler is the scheduling capability handed to the renderer, navigator
// and scroller.
type Scheduler interface {
	// OnNextFrame queues fn for the next frame step. Tasks queued while a
	// frame is running go to the following frame, never the current one.
	OnNextFrame(fn func()) *Handle
	// After queues fn to run on the first frame step at or past d from now.
	After(d time.Duration, fn func()) *Handle
	// Now is the scheduler's clock. All core timing (animation progress,
	// convergence budgets, debounces) reads this, never time.Now, so tests
	// control time completely.
	Now() time.Time
}

// Loop is the concrete scheduler. The zero value is not usable; construct
// with NewLoop.
type Loop struct {
	now    time.Time
	frame  []*Handle
	timers []*Handle
	closed bool
}

func NewLoop(start time.Time) *Loop {
	return &Loop{now: start}
}

func (l *Loop) Now() time.Time { return l.now }

func (l *Loop) OnNextFrame(fn func()) *Handle {
	h := &Handle{fn: fn}
	if l.closed {
		h.canceled = true
		return h
	}
	l.frame = append(l.frame, h)
	return h
}

func (l *Loop) After(d time.Duration, fn func()) *Handle {
	if d < 0 {
		d = 0
	}
	h := &Handle{fn: fn, deadline: l.now.Add(d)}
	if l.closed {
		h.canceled = true
		return h
	}
	l.timers = append(l.timers, h)
	return h
}

// Advance moves the clock forward and runs one frame step, firing any timers
// that became due. This is the per-tick entry point for the TUI driver.
func (l *Loop) Advance(d time.Duration) {
	if d > 0 {
		l.now = l.now.Add(d)
	}
	l.Step()
}

// Step runs one frame: every task queued for this frame, in scheduling
// order, then all due timers. Tasks scheduled by running tasks wait for the
// next Step.
func (l *Loop) Step() {
	if l.closed {
		return
	}

	pending := l.frame
	l.frame = nil
	for _, h := range pending {
		l.run(h)
	}

	remaining := l.timers[:0]
	due := make([]*Handle, 0, len(l.timers))
	for _, h := range l.timers {
		if h.canceled || h.done {
			continue
		}
		if !h.deadline.After(l.now) {
			due = append(due, h)
		} else {
			remaining = append(remaining, h)
		}
	}
	l.timers = remaining
	for _, h := range due {
		l.run(h)
	}
}

func (l *Loop) run(h *Handle) {
	if h.canceled || h.done {
		return
	}
	h.done = true
	h.fn()
}

// Pending reports whether any frame task or timer is still queued. The TUI
// uses this to stop ticking when the panel is idle.
func (l *Loop) Pending() bool {
	for _, h := range l.frame {
		if h.Active() {
			return true
		}
	}
	for _, h := range l.timers {
		if h.Active() {
			return true
		}
	}
	return false
}

// Close cancels all outstanding work and rejects future scheduling. Called
// on component teardown so no callback fires against a torn-down panel.
func (l *Loop) Close() {
	for _, h := range l.frame {
		h.Cancel()
	}
	for _, h := range l.timers {
		h.Cancel()
	}
	l.frame = nil
	l.timers = nil
	l.closed = true
}
