package timers_test

import (
	"sync/atomic"
	"testing"
	"time"

	"sublens/internal/timers"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	var calls atomic.Int32
	d := timers.NewDebouncer(30*time.Millisecond, func() { calls.Add(1) })
	defer d.Stop()

	for i := 0; i < 5; i++ {
		d.Trigger()
	}
	time.Sleep(150 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one coalesced call, got %d", got)
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	var calls atomic.Int32
	d := timers.NewDebouncer(30*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	d.Stop()
	time.Sleep(100 * time.Millisecond)

	if got := calls.Load(); got != 0 {
		t.Fatalf("expected cancellation, got %d calls", got)
	}
	d.Trigger()
	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Fatalf("expected stopped debouncer to reject triggers, got %d calls", got)
	}
}

func TestDebouncerFiresAgainAfterQuietPeriod(t *testing.T) {
	var calls atomic.Int32
	d := timers.NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })
	defer d.Stop()

	d.Trigger()
	time.Sleep(80 * time.Millisecond)
	d.Trigger()
	time.Sleep(80 * time.Millisecond)

	if got := calls.Load(); got != 2 {
		t.Fatalf("expected two separate firings, got %d", got)
	}
}
