package timer

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

func TestTickNoopWhenStopped(t *testing.T) {
	var tm Timer
	tm.Set(30*time.Second, false, t0)

	tm.Tick(t0.Add(10 * time.Second))

	if got := tm.Remaining(); got != 30*time.Second {
		t.Fatalf("expected 30s remaining on stopped timer, got %v", got)
	}
}

func TestTickChargesWallClockGap(t *testing.T) {
	var tm Timer
	tm.Reset(60*time.Second, t0)

	tm.Tick(t0.Add(1 * time.Second))
	// a suspended process wakes 40s later; the whole gap is charged at once
	tm.Tick(t0.Add(41 * time.Second))

	if got := tm.RemainingSeconds(); got != 19 {
		t.Fatalf("expected 19s remaining, got %v", got)
	}
}

func TestTickFloorsAtZero(t *testing.T) {
	var tm Timer
	tm.Reset(5*time.Second, t0)

	tm.Tick(t0.Add(time.Minute))

	if tm.RemainingMs() != 0 {
		t.Fatalf("expected remaining floored at zero, got %d", tm.RemainingMs())
	}
	if !tm.Expired() {
		t.Fatal("expected timer to report expiry while running at zero")
	}
}

func TestTickSameInstantIsNoop(t *testing.T) {
	var tm Timer
	tm.Reset(20*time.Second, t0)

	tm.Tick(tm.LastUpdate())

	if got := tm.Remaining(); got != 20*time.Second {
		t.Fatalf("expected unchanged remaining, got %v", got)
	}
}

func TestTickMonotonic(t *testing.T) {
	var tm Timer
	tm.Reset(10*time.Second, t0)

	prev := tm.RemainingMs()
	offsets := []time.Duration{
		300 * time.Millisecond,
		250 * time.Millisecond, // clock went backwards
		2 * time.Second,
		2 * time.Second,
		9 * time.Second,
		15 * time.Second,
	}
	for _, off := range offsets {
		tm.Tick(t0.Add(off))
		if tm.RemainingMs() > prev {
			t.Fatalf("remaining increased from %d to %d at %v", prev, tm.RemainingMs(), off)
		}
		prev = tm.RemainingMs()
	}
}

func TestTickCarriesSubMillisecondRemainder(t *testing.T) {
	var tm Timer
	tm.Reset(10*time.Second, t0)

	// 1000 ticks of 1.5ms should charge exactly 1.5s, not 1s
	now := t0
	for i := 0; i < 1000; i++ {
		now = now.Add(1500 * time.Microsecond)
		tm.Tick(now)
	}

	if got := tm.RemainingMs(); got != 8500 {
		t.Fatalf("expected 8500ms remaining, got %d", got)
	}
}

func TestPauseResumeDoesNotChargePausedInterval(t *testing.T) {
	var tm Timer
	tm.Reset(30*time.Second, t0)
	tm.Tick(t0.Add(5 * time.Second))

	tm.Pause()
	tm.Tick(t0.Add(20 * time.Second))
	tm.Resume(t0.Add(20 * time.Second))
	tm.Tick(t0.Add(22 * time.Second))

	if got := tm.RemainingSeconds(); got != 23 {
		t.Fatalf("expected 23s remaining, got %v", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	var tm Timer
	tm.Reset(45*time.Second, t0)
	tm.Tick(t0.Add(2500 * time.Millisecond))

	restored := FromSnapshot(tm.Snapshot())

	if restored.RemainingMs() != tm.RemainingMs() || restored.Running() != tm.Running() || !restored.LastUpdate().Equal(tm.LastUpdate()) {
		t.Fatalf("snapshot round trip mismatch: %+v vs %+v", restored.Snapshot(), tm.Snapshot())
	}
}

func TestStop(t *testing.T) {
	var tm Timer
	tm.Reset(45*time.Second, t0)
	tm.Stop()

	if tm.Running() || tm.RemainingMs() != 0 || tm.Expired() {
		t.Fatalf("expected stopped zero timer, got %+v", tm.Snapshot())
	}
}
