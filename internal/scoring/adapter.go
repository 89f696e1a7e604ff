package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"interviewassist/internal/models"
)

const defaultTimeout = 30 * time.Second

type Adapter struct {
	remote  Remote
	timeout time.Duration
	logger  *zap.Logger
}

// NewAdapter wraps remote, which may be nil to always use the local
// heuristics. A non-positive timeout uses 30s.
func NewAdapter(remote Remote, timeout time.Duration, logger *zap.Logger) *Adapter {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{remote: remote, timeout: timeout, logger: logger}
}

// HasRemote reports whether a remote backend is configured.
func (a *Adapter) HasRemote() bool {
	return a.remote != nil
}

func (a *Adapter) GenerateQuestions(ctx context.Context, req models.QuestionRequest) Outcome[[]models.GeneratedQuestion] {
	if a.remote == nil {
		return fallback(a, "generate_questions", ErrNoRemote, LocalQuestions(req))
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	questions, err := a.remote.GenerateQuestions(ctx, req)
	if err == nil {
		err = validateQuestions(questions)
	}
	if err != nil {
		return fallback(a, "generate_questions", err, LocalQuestions(req))
	}
	for i := range questions {
		questions[i].Difficulty = strings.ToLower(strings.TrimSpace(questions[i].Difficulty))
	}
	return Outcome[[]models.GeneratedQuestion]{Value: questions, Source: SourceRemote}
}

func (a *Adapter) ScoreAnswer(ctx context.Context, req models.ScoreRequest) Outcome[models.ScoreResponse] {
	if a.remote == nil {
		return fallback(a, "score_answer", ErrNoRemote, LocalScore(req.Question, req.Difficulty, req.Answer))
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.remote.ScoreAnswer(ctx, req)
	if err == nil {
		err = validateScore(resp)
	}
	if err != nil {
		return fallback(a, "score_answer", err, LocalScore(req.Question, req.Difficulty, req.Answer))
	}
	return Outcome[models.ScoreResponse]{Value: *resp, Source: SourceRemote}
}

func (a *Adapter) Finalize(ctx context.Context, req models.FinalizeRequest) Outcome[models.FinalizeResponse] {
	if a.remote == nil {
		return fallback(a, "finalize", ErrNoRemote, LocalFinalize(req.Items, req.Profile))
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.remote.Finalize(ctx, req)
	if err == nil {
		err = validateFinal(resp)
	}
	if err != nil {
		return fallback(a, "finalize", err, LocalFinalize(req.Items, req.Profile))
	}
	return Outcome[models.FinalizeResponse]{Value: *resp, Source: SourceRemote}
}

func fallback[T any](a *Adapter, op string, err error, value T) Outcome[T] {
	if errors.Is(err, ErrNoRemote) {
		a.logger.Debug("Using local scoring", zap.String("operation", op))
	} else {
		a.logger.Warn("Scoring backend unavailable, using local fallback",
			zap.String("operation", op),
			zap.Error(err))
	}
	return Outcome[T]{Value: value, Source: SourceFallback, Err: err}
}

func validateQuestions(questions []models.GeneratedQuestion) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: empty question list", ErrInvalidPayload)
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("%w: question %d has no text", ErrInvalidPayload, i)
		}
		if !models.ValidDifficulties[strings.ToLower(strings.TrimSpace(q.Difficulty))] {
			return fmt.Errorf("%w: question %d has difficulty %q", ErrInvalidPayload, i, q.Difficulty)
		}
		if q.TimeLimit < 0 {
			return fmt.Errorf("%w: question %d has negative time limit", ErrInvalidPayload, i)
		}
	}
	return nil
}

func validateScore(resp *models.ScoreResponse) error {
	if resp == nil {
		return fmt.Errorf("%w: empty score", ErrInvalidPayload)
	}
	if !inRange(resp.Score, 0, 10) {
		return fmt.Errorf("%w: score %v outside 0-10", ErrInvalidPayload, resp.Score)
	}
	return nil
}

func validateFinal(resp *models.FinalizeResponse) error {
	if resp == nil {
		return fmt.Errorf("%w: empty final result", ErrInvalidPayload)
	}
	if !inRange(resp.FinalScore, 0, 100) {
		return fmt.Errorf("%w: final score %v outside 0-100", ErrInvalidPayload, resp.FinalScore)
	}
	return nil
}

func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}
