// Package timer converts wall-clock passage into a per-question countdown.
//
// The countdown reconciles against absolute timestamps instead of counting
// ticks, so a suspended process is charged the full gap on its next tick.
// Remaining time is kept in whole milliseconds; the sub-millisecond part of
// each delta is carried forward in lastUpdate rather than rounded away.
package timer

import "time"

// Timer is the countdown for the active question. The zero value is stopped
// with nothing remaining.
type Timer struct {
	remainingMs int64
	running     bool
	lastUpdate  time.Time
}

// Snapshot is the persisted form of a Timer.
type Snapshot struct {
	RemainingMs int64     `json:"remainingMs"`
	Running     bool      `json:"running"`
	LastUpdate  time.Time `json:"lastUpdate"`
}

// FromSnapshot rebuilds a timer from persisted state.
func FromSnapshot(s Snapshot) *Timer {
	remaining := s.RemainingMs
	if remaining < 0 {
		remaining = 0
	}
	return &Timer{
		remainingMs: remaining,
		running:     s.Running,
		lastUpdate:  s.LastUpdate,
	}
}

// Snapshot returns the persistable state.
func (t *Timer) Snapshot() Snapshot {
	return Snapshot{
		RemainingMs: t.remainingMs,
		Running:     t.running,
		LastUpdate:  t.lastUpdate,
	}
}

// Reset sets the countdown to allotted and starts it at now.
func (t *Timer) Reset(allotted time.Duration, now time.Time) {
	t.remainingMs = clampMs(allotted.Milliseconds())
	t.running = true
	t.lastUpdate = now
}

// Set places the timer at an explicit remaining value, running or not.
func (t *Timer) Set(remaining time.Duration, running bool, now time.Time) {
	t.remainingMs = clampMs(remaining.Milliseconds())
	t.running = running
	t.lastUpdate = now
}

// Tick charges the time elapsed since the last reconciliation. No-op unless
// running. A clock that moved backwards charges nothing.
func (t *Timer) Tick(now time.Time) {
	if !t.running {
		return
	}
	delta := now.Sub(t.lastUpdate)
	if delta <= 0 {
		return
	}
	elapsedMs := delta.Milliseconds()
	t.remainingMs = clampMs(t.remainingMs - elapsedMs)
	t.lastUpdate = t.lastUpdate.Add(time.Duration(elapsedMs) * time.Millisecond)
}

// Pause freezes the countdown.
func (t *Timer) Pause() {
	t.running = false
}

// Resume restarts the countdown without charging the paused interval.
func (t *Timer) Resume(now time.Time) {
	t.running = true
	t.lastUpdate = now
}

// Stop halts the countdown and zeroes it.
func (t *Timer) Stop() {
	t.running = false
	t.remainingMs = 0
}

// Running reports whether the countdown is active.
func (t *Timer) Running() bool {
	return t.running
}

// Remaining returns the remaining time.
func (t *Timer) Remaining() time.Duration {
	return time.Duration(t.remainingMs) * time.Millisecond
}

// RemainingMs returns the remaining time in milliseconds.
func (t *Timer) RemainingMs() int64 {
	return t.remainingMs
}

// RemainingSeconds converts to display units.
func (t *Timer) RemainingSeconds() float64 {
	return float64(t.remainingMs) / 1000
}

// LastUpdate returns the timestamp of the last reconciliation.
func (t *Timer) LastUpdate() time.Time {
	return t.lastUpdate
}

// Expired reports the expiry condition the caller must act on: still running
// with nothing left.
func (t *Timer) Expired() bool {
	return t.running && t.remainingMs == 0
}

func clampMs(ms int64) int64 {
	if ms < 0 {
		return 0
	}
	return ms
}
