// Package interview orchestrates the session machine, the scoring adapter
// and the candidate store. Every transition goes through Service, which
// serializes them with a single mutex; remote calls run outside the lock.
package interview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"interviewassist/internal/config"
	"interviewassist/internal/metrics"
	"interviewassist/internal/models"
	"interviewassist/internal/scoring"
	"interviewassist/internal/session"
	"interviewassist/internal/store"
)

var (
	ErrRecoveryPending    = errors.New("a restored interview is waiting to be continued or discarded")
	ErrNoRecoveryPending  = errors.New("no restored interview is waiting")
	ErrNoActiveSession    = errors.New("no interview in progress")
	ErrSubmissionInFlight = errors.New("an answer for this question is already being scored")
	ErrSessionChanged     = errors.New("the interview changed while the answer was being scored")
	ErrCandidateNotFound  = errors.New("candidate not found")
	ErrProfileLocked      = errors.New("candidate has an interview in progress")
)

// Notifier receives non-fatal notices for the user.
type Notifier interface {
	Push(level, message string) models.Notice
}

type Deps struct {
	Repo     session.Repository
	Store    store.Store
	Scorer   *scoring.Adapter
	Notifier Notifier
	Settings *config.SettingsRepository
	Defaults config.Settings
	Logger   *zap.Logger
	Clock    session.Clock
}

type Service struct {
	mu           sync.Mutex
	machine      *session.Machine
	repo         session.Repository
	store        store.Store
	scorer       *scoring.Adapter
	notifier     Notifier
	settingsRepo *config.SettingsRepository
	settings     config.Settings
	logger       *zap.Logger
	now          session.Clock

	draft           string
	recoveryPending bool
	// startingFor is the candidate whose questions are being generated.
	startingFor string
	submitting  bool
	// generation changes whenever the session is replaced, so results of
	// remote calls started against an older session can be recognised.
	generation   uint64
	finalizedGen uint64
	result       *models.CandidateResult

	watchers    map[int]chan models.SessionView
	nextWatcher int

	background sync.WaitGroup
}

func NewService(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	scorer := d.Scorer
	if scorer == nil {
		scorer = scoring.NewAdapter(nil, 0, logger)
	}
	clock := d.Clock
	if clock == nil {
		clock = time.Now
	}
	settings := d.Defaults
	if settings.Role == "" {
		settings = config.DefaultSettings()
	}
	return &Service{
		machine:      session.NewMachine(clock),
		repo:         d.Repo,
		store:        d.Store,
		scorer:       scorer,
		notifier:     d.Notifier,
		settingsRepo: d.Settings,
		settings:     settings,
		logger:       logger,
		now:          clock,
		watchers:     make(map[int]chan models.SessionView),
	}
}

// StartInterview generates questions for the candidate and starts a session.
// A completed session is replaced; one still in progress is not.
func (s *Service) StartInterview(ctx context.Context, candidateID string) (models.SessionView, error) {
	s.mu.Lock()
	if s.recoveryPending {
		s.mu.Unlock()
		return models.SessionView{}, ErrRecoveryPending
	}
	if s.startingFor != "" || s.machine.Active() {
		s.mu.Unlock()
		return models.SessionView{}, session.ErrSessionInProgress
	}
	s.startingFor = candidateID
	settings := s.settings.Clone()
	s.mu.Unlock()

	items, err := s.prepareItems(ctx, candidateID, settings)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.startingFor = ""
	if err != nil {
		return models.SessionView{}, err
	}
	if err := s.machine.Start(candidateID, items); err != nil {
		return models.SessionView{}, err
	}

	s.generation++
	s.draft = ""
	s.submitting = false
	s.result = nil

	s.logger.Info("Interview started",
		zap.String("candidate_id", candidateID),
		zap.Int("questions", len(items)))
	metrics.RecordSessionEvent(metrics.EventStarted)
	metrics.SetSessionActive(true)
	s.persistLocked(ctx)
	s.publishLocked()
	return s.viewLocked(), nil
}

func (s *Service) prepareItems(ctx context.Context, candidateID string, settings config.Settings) ([]models.QAItem, error) {
	if _, err := s.store.GetCandidate(ctx, candidateID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("failed to load candidate: %w", err)
	}

	outcome := s.scorer.GenerateQuestions(ctx, models.QuestionRequest{
		Role:       settings.Role,
		Counts:     settings.Counts(),
		Seed:       settings.Seed,
		TimeLimits: settings.TimerValues,
	})
	s.recordOutcome("generate_questions", outcome.Source, "Question service unavailable, using the built-in question set.")

	items := buildItems(outcome.Value, settings)
	if len(items) == 0 {
		return nil, session.ErrNoItems
	}
	return items, nil
}

// SaveDraft holds the in-progress answer so an expiring timer can submit it.
func (s *Service) SaveDraft(ctx context.Context, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recoveryPending {
		return ErrRecoveryPending
	}
	if !s.machine.Active() {
		return ErrNoActiveSession
	}
	s.draft = answer
	s.persistLocked(ctx)
	return nil
}

// SubmitAnswer scores and records the current answer, then advances. A nil
// answer submits the held draft. When the last question is submitted the
// session is finalized before returning.
func (s *Service) SubmitAnswer(ctx context.Context, answer *string) (models.SessionView, error) {
	s.mu.Lock()
	sub, err := s.beginSubmitLocked(answer, false)
	s.mu.Unlock()
	if err != nil {
		return models.SessionView{}, err
	}
	return s.completeSubmit(ctx, sub)
}

// EndEarly terminates the session, finalizes it with whatever has been
// scored so far and then clears it. The returned view holds the completed
// session and its result.
func (s *Service) EndEarly(ctx context.Context) (models.SessionView, error) {
	s.mu.Lock()
	if s.recoveryPending {
		s.mu.Unlock()
		return models.SessionView{}, ErrRecoveryPending
	}
	if !s.machine.Complete() {
		s.mu.Unlock()
		return models.SessionView{}, ErrNoActiveSession
	}
	s.draft = ""
	s.logger.Info("Interview ended early", zap.String("candidate_id", s.machine.CandidateID()))
	metrics.RecordSessionEvent(metrics.EventEndedEarly)
	metrics.SetSessionActive(false)

	fin := s.beginFinalizeLocked()
	s.persistLocked(ctx)
	s.publishLocked()
	view := s.viewLocked()
	s.mu.Unlock()

	if fin == nil {
		return view, nil
	}
	view.Result = s.completeFinalize(ctx, *fin)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == fin.gen {
		s.resetLocked()
		s.persistLocked(ctx)
		s.publishLocked()
	}
	return view, nil
}

// Tick reconciles the countdown and, on expiry, submits the held draft in
// the background. It reports whether a forced submission was started.
func (s *Service) Tick(ctx context.Context) bool {
	s.mu.Lock()
	if s.recoveryPending || !s.machine.Active() {
		s.mu.Unlock()
		return false
	}

	s.machine.Tick()
	if !s.machine.Expired() || s.submitting {
		s.publishLocked()
		s.mu.Unlock()
		return false
	}

	sub, err := s.beginSubmitLocked(nil, true)
	s.publishLocked()
	s.mu.Unlock()
	if err != nil {
		return false
	}

	s.background.Add(1)
	go func() {
		defer s.background.Done()
		if _, err := s.completeSubmit(context.WithoutCancel(ctx), sub); err != nil && !errors.Is(err, ErrSessionChanged) {
			s.logger.Error("Forced submission failed", zap.Error(err))
		}
	}()
	return true
}

// Wait blocks until background submissions and finalizations are done.
func (s *Service) Wait() {
	s.background.Wait()
}

// Clear discards the session, including a restored one awaiting a decision.
func (s *Service) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
	s.persistLocked(ctx)
	s.publishLocked()
}

// View returns the current projection of the session.
func (s *Service) View() models.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.viewLocked()
}

type submission struct {
	gen    uint64
	index  int
	item   models.QAItem
	answer string
	forced bool
}

func (s *Service) beginSubmitLocked(answer *string, forced bool) (submission, error) {
	if s.recoveryPending {
		return submission{}, ErrRecoveryPending
	}
	item, ok := s.machine.CurrentItem()
	if !ok {
		return submission{}, ErrNoActiveSession
	}
	if s.submitting {
		return submission{}, ErrSubmissionInFlight
	}

	text := s.draft
	if answer != nil {
		text = *answer
	}
	s.submitting = true
	return submission{
		gen:    s.generation,
		index:  s.machine.CurrentIndex(),
		item:   item,
		answer: text,
		forced: forced,
	}, nil
}

func (s *Service) completeSubmit(ctx context.Context, sub submission) (models.SessionView, error) {
	outcome := s.scorer.ScoreAnswer(ctx, models.ScoreRequest{
		Question:   sub.item.Question,
		Difficulty: sub.item.Difficulty,
		Answer:     sub.answer,
	})
	s.recordOutcome("score_answer", outcome.Source, "Scoring service unavailable, the answer was scored locally.")

	s.mu.Lock()
	if sub.gen != s.generation {
		s.mu.Unlock()
		return models.SessionView{}, ErrSessionChanged
	}
	s.submitting = false
	if !s.machine.Active() || s.machine.CurrentIndex() != sub.index {
		s.mu.Unlock()
		return models.SessionView{}, ErrSessionChanged
	}

	score := outcome.Value.Score
	feedback := outcome.Value.Feedback
	s.machine.SubmitAnswer(sub.answer, &score, &feedback)
	s.draft = ""
	if sub.forced {
		metrics.RecordSessionEvent(metrics.EventForcedSubmit)
		s.notify(models.NoticeWarning, fmt.Sprintf("Time is up for question %d, your answer was submitted automatically.", sub.index+1))
	}

	s.machine.Advance()
	var fin *finalization
	if s.machine.Status() == models.StatusCompleted {
		s.logger.Info("Interview completed", zap.String("candidate_id", s.machine.CandidateID()))
		metrics.RecordSessionEvent(metrics.EventCompleted)
		metrics.SetSessionActive(false)
		fin = s.beginFinalizeLocked()
	}
	s.persistLocked(ctx)
	s.publishLocked()
	view := s.viewLocked()
	s.mu.Unlock()

	if fin != nil {
		view.Result = s.completeFinalize(ctx, *fin)
	}
	return view, nil
}

type finalization struct {
	gen         uint64
	candidateID string
	items       []models.QAItem
	weights     map[string]float64
}

// beginFinalizeLocked claims the one finalization allowed per session.
func (s *Service) beginFinalizeLocked() *finalization {
	if s.finalizedGen == s.generation {
		return nil
	}
	s.finalizedGen = s.generation
	sess := s.machine.Session()
	if sess == nil {
		return nil
	}
	return &finalization{
		gen:         s.generation,
		candidateID: sess.CandidateID,
		items:       sess.Items,
		weights:     s.settings.Clone().ScoringWeights,
	}
}

func (s *Service) completeFinalize(ctx context.Context, fin finalization) *models.CandidateResult {
	profile, err := s.store.GetCandidate(ctx, fin.candidateID)
	if err != nil {
		s.logger.Warn("Finalizing without candidate profile",
			zap.String("candidate_id", fin.candidateID),
			zap.Error(err))
		profile = &models.CandidateProfile{ID: fin.candidateID}
	}

	outcome := s.scorer.Finalize(ctx, models.FinalizeRequest{
		Items:   fin.items,
		Profile: *profile,
		Weights: fin.weights,
	})
	s.recordOutcome("finalize", outcome.Source, "Scoring service unavailable, the final summary was generated locally.")

	result := &models.CandidateResult{
		CandidateID: fin.candidateID,
		FinalScore:  outcome.Value.FinalScore,
		Summary:     outcome.Value.Summary,
		FinishedAt:  s.now().UTC(),
	}

	if err := s.store.AddResult(context.WithoutCancel(ctx), *result); err != nil {
		s.logger.Error("Failed to store result",
			zap.String("candidate_id", fin.candidateID),
			zap.Error(err))
		s.notify(models.NoticeError, "The interview result could not be saved.")
	} else {
		s.notify(models.NoticeSuccess, fmt.Sprintf("Interview finished with a score of %.0f/100.", result.FinalScore))
	}

	s.mu.Lock()
	if s.generation == fin.gen {
		s.result = result
		s.publishLocked()
	}
	s.mu.Unlock()
	return result
}

func (s *Service) resetLocked() {
	s.machine.Clear()
	s.generation++
	s.draft = ""
	s.submitting = false
	s.recoveryPending = false
	s.result = nil
	metrics.SetSessionActive(false)
}

func (s *Service) viewLocked() models.SessionView {
	return models.SessionView{
		Session:          s.machine.Session(),
		Active:           s.machine.Active(),
		Draft:            s.draft,
		RemainingSeconds: s.machine.RemainingSeconds(),
		TimerRunning:     s.machine.TimerRunning(),
		RecoveryPending:  s.recoveryPending,
		SubmitInFlight:   s.submitting,
		Result:           s.result,
	}
}

// persistLocked saves the snapshot. Failures are logged, never returned.
func (s *Service) persistLocked(ctx context.Context) {
	if s.repo == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	snapshot := s.machine.Snapshot()
	if snapshot.Session == nil {
		if err := s.repo.Clear(ctx); err != nil {
			s.logger.Error("Failed to clear persisted session", zap.Error(err))
		}
		return
	}
	snapshot.Draft = s.draft
	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.logger.Error("Failed to persist session", zap.Error(err))
	}
}

func (s *Service) recordOutcome(operation string, source scoring.Source, fallbackMessage string) {
	metrics.RecordScoring(operation, string(source))
	if source == scoring.SourceFallback && s.scorer.HasRemote() {
		s.notify(models.NoticeWarning, fallbackMessage)
	}
}

func (s *Service) notify(level, message string) {
	if s.notifier != nil {
		s.notifier.Push(level, message)
	}
}
