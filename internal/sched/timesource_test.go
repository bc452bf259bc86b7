package sched_test

import (
	"math"
	"testing"

	"sublens/internal/platform"
	"sublens/internal/sched"
)

func TestCurrentTimePrefersProgressBar(t *testing.T) {
	adapter := platform.NewScripted("vid", 200)
	adapter.Seek(40)
	adapter.AttachProgressBar(25, 100)

	got, source := sched.CurrentTime(adapter, 0)
	if source != sched.SourceProgressBar {
		t.Fatalf("expected progress-bar source, got %q", source)
	}
	if math.Abs(got-50) > 1e-9 {
		t.Fatalf("expected scaled bar time 50, got %v", got)
	}
}

func TestCurrentTimeFallsBackToMediaClock(t *testing.T) {
	adapter := platform.NewScripted("vid", 200)
	adapter.Seek(40)

	got, source := sched.CurrentTime(adapter, 0)
	if source != sched.SourceMediaClock {
		t.Fatalf("expected media clock, got %q", source)
	}
	if got != 40 {
		t.Fatalf("expected media time 40, got %v", got)
	}
}

func TestCurrentTimeAppliesOffsetUniformly(t *testing.T) {
	adapter := platform.NewScripted("vid", 100)
	adapter.Seek(10)

	if got, _ := sched.CurrentTime(adapter, 1.5); got != 11.5 {
		t.Fatalf("expected offset media time 11.5, got %v", got)
	}

	adapter.AttachProgressBar(10, 100)
	if got, _ := sched.CurrentTime(adapter, 1.5); math.Abs(got-11.5) > 1e-9 {
		t.Fatalf("expected offset bar time 11.5, got %v", got)
	}
}

func TestCurrentTimeWithoutMedia(t *testing.T) {
	adapter := platform.NewScripted("vid", 100)
	adapter.DetachMedia()
	if _, source := sched.CurrentTime(adapter, 0); source != sched.SourceNone {
		t.Fatalf("expected no source, got %q", source)
	}
	if _, source := sched.CurrentTime(nil, 0); source != sched.SourceNone {
		t.Fatalf("expected no source for nil adapter, got %q", source)
	}
}
