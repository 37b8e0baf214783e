package frame

import (
	"testing"
	"time"
)

func newTestLoop() *Loop {
	return NewLoop(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestOnNextFrameRunsOnStep(t *testing.T) {
	l := newTestLoop()
	ran := 0
	l.OnNextFrame(func() { ran++ })

	if ran != 0 {
		t.Fatal("task ran before Step")
	}
	l.Step()
	if ran != 1 {
		t.Fatalf("ran = %d, want 1", ran)
	}
	l.Step()
	if ran != 1 {
		t.Fatal("task ran twice")
	}
}

func TestTaskScheduledDuringFrameWaitsForNextFrame(t *testing.T) {
	l := newTestLoop()
	var order []string
	l.OnNextFrame(func() {
		order = append(order, "first")
		l.OnNextFrame(func() { order = append(order, "second") })
	})

	l.Step()
	if len(order) != 1 || order[0] != "first" {
		t.Fatalf("after one step order = %v", order)
	}
	l.Step()
	if len(order) != 2 || order[1] != "second" {
		t.Fatalf("after two steps order = %v", order)
	}
}

func TestCancelPreventsRun(t *testing.T) {
	l := newTestLoop()
	ran := false
	h := l.OnNextFrame(func() { ran = true })
	h.Cancel()
	l.Step()
	if ran {
		t.Fatal("canceled task ran")
	}
	// Cancel is idempotent and nil-safe.
	h.Cancel()
	var nilHandle *Handle
	nilHandle.Cancel()
}

func TestAfterFiresAtDeadline(t *testing.T) {
	l := newTestLoop()
	ran := false
	l.After(100*time.Millisecond, func() { ran = true })

	l.Advance(50 * time.Millisecond)
	if ran {
		t.Fatal("timer fired early")
	}
	l.Advance(50 * time.Millisecond)
	if !ran {
		t.Fatal("timer did not fire at deadline")
	}
}

func TestPending(t *testing.T) {
	l := newTestLoop()
	if l.Pending() {
		t.Fatal("fresh loop reports pending work")
	}
	h := l.OnNextFrame(func() {})
	if !l.Pending() {
		t.Fatal("queued task not reported pending")
	}
	h.Cancel()
	if l.Pending() {
		t.Fatal("canceled task still reported pending")
	}

	l.After(time.Second, func() {})
	if !l.Pending() {
		t.Fatal("queued timer not reported pending")
	}
}

func TestCloseCancelsOutstandingWork(t *testing.T) {
	l := newTestLoop()
	ran := false
	l.OnNextFrame(func() { ran = true })
	l.After(time.Millisecond, func() { ran = true })

	l.Close()
	l.Advance(time.Second)
	if ran {
		t.Fatal("work ran after Close")
	}
	if h := l.OnNextFrame(func() { ran = true }); h.Active() {
		t.Fatal("closed loop accepted new work")
	}
}
