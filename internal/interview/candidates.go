package interview

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"interviewassist/internal/config"
	"interviewassist/internal/models"
	"interviewassist/internal/store"
)

// AddCandidate stores a new profile, assigning an id and creation time when
// the caller left them empty.
func (s *Service) AddCandidate(ctx context.Context, profile models.CandidateProfile) (*models.CandidateProfile, error) {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = s.now().UTC()
	}
	if err := s.store.AddCandidate(ctx, profile); err != nil {
		return nil, err
	}
	s.logger.Info("Candidate added", zap.String("candidate_id", profile.ID))
	return &profile, nil
}

func (s *Service) GetCandidate(ctx context.Context, id string) (*models.CandidateRow, error) {
	profile, err := s.store.GetCandidate(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	row := &models.CandidateRow{Profile: *profile}
	result, err := s.store.GetResult(ctx, id)
	switch {
	case err == nil:
		row.Result = result
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}
	return row, nil
}

func (s *Service) ListCandidates(ctx context.Context, opts store.ListOptions) ([]models.CandidateRow, error) {
	return s.store.ListCandidates(ctx, opts)
}

// UpdateCandidate applies manual corrections. The profile of the candidate
// being interviewed is locked until the session ends.
func (s *Service) UpdateCandidate(ctx context.Context, id string, update models.ProfileUpdate) (*models.CandidateProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.interviewingLocked(id) {
		return nil, ErrProfileLocked
	}
	profile, err := s.store.UpdateCandidate(ctx, id, update)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return profile, nil
}

// RemoveCandidate deletes the profile and its result. Like UpdateCandidate it
// is refused while the candidate is being interviewed.
func (s *Service) RemoveCandidate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.interviewingLocked(id) {
		return ErrProfileLocked
	}
	if err := s.store.RemoveCandidate(ctx, id); err != nil {
		return mapNotFound(err)
	}
	s.logger.Info("Candidate removed", zap.String("candidate_id", id))
	return nil
}

// Result returns the stored result for a candidate.
func (s *Service) Result(ctx context.Context, candidateID string) (*models.CandidateResult, error) {
	return s.store.GetResult(ctx, candidateID)
}

// Settings returns a copy of the current interview settings.
func (s *Service) Settings() config.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.settings.Clone()
}

// LoadSettings replaces the defaults with the persisted settings, if any.
func (s *Service) LoadSettings(ctx context.Context) {
	if s.settingsRepo == nil {
		return
	}
	s.mu.Lock()
	current := s.settings.Clone()
	s.mu.Unlock()

	loaded, err := s.settingsRepo.Load(ctx, current)
	if err != nil {
		s.logger.Warn("Using default interview settings", zap.Error(err))
	}

	s.mu.Lock()
	s.settings = loaded
	s.mu.Unlock()
}

// UpdateSettings merges req into the settings. They apply to the next
// interview; a running session keeps the questions and timers it started with.
func (s *Service) UpdateSettings(ctx context.Context, req models.SettingsRequest) (config.Settings, error) {
	s.mu.Lock()
	merged := s.settings.Merge(req)
	if err := merged.Validate(); err != nil {
		s.mu.Unlock()
		return config.Settings{}, &models.ErrorResponse{Code: "invalid_settings", Message: err.Error()}
	}
	s.settings = merged
	s.mu.Unlock()

	if s.settingsRepo != nil {
		if err := s.settingsRepo.Save(ctx, merged); err != nil {
			s.logger.Error("Failed to persist settings", zap.Error(err))
			return merged.Clone(), fmt.Errorf("settings applied but not saved: %w", err)
		}
	}
	return merged.Clone(), nil
}

// interviewingLocked reports whether the candidate has a session in
// progress or one being started.
func (s *Service) interviewingLocked(candidateID string) bool {
	if s.startingFor != "" && s.startingFor == candidateID {
		return true
	}
	return s.machine.Active() && s.machine.CandidateID() == candidateID
}

func mapNotFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrCandidateNotFound, err)
	}
	return err
}
