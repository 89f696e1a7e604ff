package interview

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"interviewassist/internal/metrics"
	"interviewassist/internal/models"
	"interviewassist/internal/session"
	"interviewassist/internal/store"
)

// Recover rehydrates the persisted session, if any. An in-progress session
// comes back paused and waits for ContinueRecovered or DiscardRecovered.
// Downtime is charged to the current question; the wait for the decision is
// not, including across further restarts. Unreadable state is discarded with
// a notice; it never fails startup.
func (s *Service) Recover(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	snapshot, err := s.repo.Load(ctx)
	if err != nil && !errors.Is(err, session.ErrMalformedSession) {
		return err
	}

	s.mu.Lock()
	if err == nil && snapshot != nil {
		err = s.machine.RestoreSnapshot(snapshot)
	}
	if err != nil {
		s.logger.Warn("Discarding unreadable session state", zap.Error(err))
		metrics.RecordSessionEvent(metrics.EventMalformedState)
		s.resetLocked()
		s.mu.Unlock()

		if clearErr := s.repo.Clear(context.WithoutCancel(ctx)); clearErr != nil {
			s.logger.Error("Failed to clear unreadable session state", zap.Error(clearErr))
		}
		s.notify(models.NoticeWarning, "The saved interview could not be restored and was discarded.")
		return nil
	}
	if snapshot == nil {
		s.mu.Unlock()
		return nil
	}

	s.generation++
	s.draft = snapshot.Draft
	s.submitting = false
	s.result = nil

	if s.machine.Active() {
		s.machine.PauseTimer()
		s.recoveryPending = true
		s.finalizedGen = 0
		// a restart before the decision resumes from this paused reading
		s.persistLocked(ctx)
		candidateID := s.machine.CandidateID()
		s.logger.Info("Restored interview in progress",
			zap.String("candidate_id", candidateID),
			zap.Int("current_index", s.machine.CurrentIndex()))
		metrics.RecordSessionEvent(metrics.EventRecovered)
		metrics.SetSessionActive(true)
		s.publishLocked()
		s.mu.Unlock()

		s.notify(models.NoticeInfo, "An unfinished interview was found. Continue it or discard it.")
		return nil
	}

	// A completed session: show its stored result, finalizing it if the
	// previous run stopped before the result was written.
	candidateID := s.machine.CandidateID()
	s.mu.Unlock()

	result, err := s.store.GetResult(ctx, candidateID)
	if err == nil {
		s.mu.Lock()
		s.finalizedGen = s.generation
		s.result = result
		s.publishLocked()
		s.mu.Unlock()
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		s.logger.Error("Failed to load result for restored interview",
			zap.String("candidate_id", candidateID),
			zap.Error(err))
	}

	s.mu.Lock()
	fin := s.beginFinalizeLocked()
	s.mu.Unlock()
	if fin != nil {
		s.completeFinalize(ctx, *fin)
	}
	return nil
}

// ContinueRecovered resumes a restored session. Time spent waiting for the
// decision is not charged to the current question.
func (s *Service) ContinueRecovered(ctx context.Context) (models.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.recoveryPending {
		return models.SessionView{}, ErrNoRecoveryPending
	}
	s.recoveryPending = false
	s.machine.ResumeTimer()
	s.logger.Info("Resumed restored interview", zap.String("candidate_id", s.machine.CandidateID()))

	s.persistLocked(ctx)
	s.publishLocked()
	return s.viewLocked(), nil
}

// DiscardRecovered throws away a restored session without finalizing it.
func (s *Service) DiscardRecovered(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.recoveryPending {
		return ErrNoRecoveryPending
	}
	s.logger.Info("Discarded restored interview", zap.String("candidate_id", s.machine.CandidateID()))
	metrics.RecordSessionEvent(metrics.EventDiscarded)

	s.resetLocked()
	s.persistLocked(ctx)
	s.publishLocked()
	return nil
}
