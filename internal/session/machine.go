// Package session owns the single interview session and its countdown.
//
// Machine is an explicit context object: every operation acts on the
// receiver, never on package state, so tests and tools can hold several
// machines at once. Transitions are trusted to arrive serially; the machine
// does no locking of its own.
package session

import (
	"errors"
	"time"

	"interviewassist/internal/models"
	"interviewassist/internal/timer"
)

var (
	ErrNoItems           = errors.New("session requires at least one question")
	ErrSessionInProgress = errors.New("an interview session is already in progress")
	ErrMalformedSession  = errors.New("malformed session state")
)

// Clock returns the current time.
type Clock func() time.Time

type Machine struct {
	session *models.InterviewSession
	timer   timer.Timer
	now     Clock
}

// NewMachine creates a machine with no session. A nil clock uses time.Now.
func NewMachine(clock Clock) *Machine {
	if clock == nil {
		clock = time.Now
	}
	return &Machine{now: clock}
}

// Start begins a new session over items. It refuses to replace a session
// that is still in progress; the caller has to Clear or Complete it first.
func (m *Machine) Start(candidateID string, items []models.QAItem) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	if m.Active() {
		return ErrSessionInProgress
	}

	owned := make([]models.QAItem, len(items))
	for i, item := range items {
		owned[i] = item.Clone()
	}

	m.session = &models.InterviewSession{
		CandidateID:  candidateID,
		Status:       models.StatusInProgress,
		Items:        owned,
		CurrentIndex: 0,
	}
	m.timer.Reset(allotment(&owned[0]), m.now())
	m.MarkCurrentStarted()
	return nil
}

// MarkCurrentStarted stamps StartedAt on the current item if it is unset.
func (m *Machine) MarkCurrentStarted() bool {
	item := m.currentItem()
	if item == nil || item.StartedAt != nil {
		return false
	}
	now := m.now().UTC()
	item.StartedAt = &now
	return true
}

// SubmitAnswer records the answer on the current item without advancing.
// It is a no-op without an active item or if the item was already submitted.
func (m *Machine) SubmitAnswer(answer string, score *float64, feedback *string) bool {
	item := m.currentItem()
	if item == nil || item.Submitted() {
		return false
	}

	now := m.now().UTC()
	text := answer
	item.Answer = &text
	item.SubmittedAt = &now
	if score != nil {
		v := *score
		item.AIScore = &v
	}
	if feedback != nil && *feedback != "" {
		v := *feedback
		item.AIFeedback = &v
	}
	return true
}

// Advance moves to the next item, or completes the session after the last.
func (m *Machine) Advance() bool {
	if !m.Active() {
		return false
	}

	m.session.CurrentIndex++
	if m.session.CurrentIndex < len(m.session.Items) {
		m.timer.Reset(allotment(&m.session.Items[m.session.CurrentIndex]), m.now())
		m.MarkCurrentStarted()
		return true
	}

	m.session.CurrentIndex = len(m.session.Items)
	m.session.Status = models.StatusCompleted
	m.timer.Stop()
	return true
}

// Complete terminates the session early. The index moves past the last item
// so that a completed session always sits at len(items).
func (m *Machine) Complete() bool {
	if !m.Active() {
		return false
	}
	m.session.Status = models.StatusCompleted
	m.session.CurrentIndex = len(m.session.Items)
	m.timer.Stop()
	return true
}

// Clear discards the session entirely.
func (m *Machine) Clear() {
	m.session = nil
	m.timer = timer.Timer{}
}

// Restore reconstructs s and recomputes the countdown from the current
// item's StartedAt. A countdown that already ran out restores as running at
// zero; the caller observes the expiry on its next tick.
func (m *Machine) Restore(s *models.InterviewSession) error {
	if err := Validate(s); err != nil {
		return err
	}

	m.session = s.Clone()
	now := m.now()

	if m.session.Status != models.StatusInProgress {
		m.timer = timer.Timer{}
		return nil
	}

	item := &m.session.Items[m.session.CurrentIndex]
	remaining := allotment(item)
	if item.StartedAt != nil {
		elapsed := now.Sub(*item.StartedAt)
		if elapsed > 0 {
			remaining -= elapsed
		}
		if remaining < 0 {
			remaining = 0
		}
	}
	m.timer.Set(remaining, true, now)
	return nil
}

// RestoreSnapshot restores a persisted machine. When the snapshot carries a
// countdown reading for the current item, the countdown continues from that
// reading instead of StartedAt, so intervals spent paused stay uncharged
// across any number of restarts. A reading that was running is charged the
// time since it was taken; a paused one resumes where it stopped.
func (m *Machine) RestoreSnapshot(s *Snapshot) error {
	if s == nil {
		return m.Restore(nil)
	}
	if err := m.Restore(s.Session); err != nil {
		return err
	}
	if !m.Active() || s.Timer.LastUpdate.IsZero() {
		return nil
	}

	item := m.session.CurrentItem()
	if item.StartedAt != nil && s.Timer.LastUpdate.Before(*item.StartedAt) {
		// reading belongs to an earlier item
		return nil
	}

	now := m.now()
	reading := timer.FromSnapshot(s.Timer)
	reading.Tick(now)
	remaining := reading.Remaining()
	if limit := allotment(item); remaining > limit {
		remaining = limit
	}
	m.timer.Set(remaining, true, now)
	return nil
}

// Tick reconciles the countdown against the clock.
func (m *Machine) Tick() {
	m.timer.Tick(m.now())
}

// PauseTimer freezes the countdown of the current item.
func (m *Machine) PauseTimer() {
	m.timer.Pause()
}

// ResumeTimer restarts the countdown without charging the paused interval.
func (m *Machine) ResumeTimer() bool {
	if !m.Active() {
		return false
	}
	m.timer.Resume(m.now())
	return true
}

// Active reports whether an in-progress session exists.
func (m *Machine) Active() bool {
	return m.session != nil && m.session.Status == models.StatusInProgress
}

// Status returns the session status, not-started when there is none.
func (m *Machine) Status() string {
	if m.session == nil {
		return models.StatusNotStarted
	}
	return m.session.Status
}

// Session returns a copy of the session, or nil.
func (m *Machine) Session() *models.InterviewSession {
	return m.session.Clone()
}

// CandidateID returns the owner of the current session.
func (m *Machine) CandidateID() string {
	if m.session == nil {
		return ""
	}
	return m.session.CandidateID
}

// CurrentIndex returns the index of the active item.
func (m *Machine) CurrentIndex() int {
	if m.session == nil {
		return 0
	}
	return m.session.CurrentIndex
}

// CurrentItem returns a copy of the active item.
func (m *Machine) CurrentItem() (models.QAItem, bool) {
	item := m.currentItem()
	if item == nil {
		return models.QAItem{}, false
	}
	return item.Clone(), true
}

// IsLastItem reports whether the active item is the final one.
func (m *Machine) IsLastItem() bool {
	return m.Active() && m.session.CurrentIndex == len(m.session.Items)-1
}

func (m *Machine) RemainingSeconds() float64 { return m.timer.RemainingSeconds() }
func (m *Machine) TimerRunning() bool        { return m.timer.Running() }
func (m *Machine) Expired() bool             { return m.Active() && m.timer.Expired() }

// Snapshot captures the machine for persistence.
func (m *Machine) Snapshot() *Snapshot {
	return &Snapshot{
		Session: m.session.Clone(),
		Timer:   m.timer.Snapshot(),
		SavedAt: m.now().UTC(),
	}
}

func (m *Machine) currentItem() *models.QAItem {
	if !m.Active() {
		return nil
	}
	return m.session.CurrentItem()
}

func allotment(item *models.QAItem) time.Duration {
	return time.Duration(item.TimeAllocatedSec) * time.Second
}
