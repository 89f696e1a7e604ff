// Package scoring talks to the remote question/score/finalize pipeline and
// falls back to deterministic local heuristics whenever the remote side is
// unavailable or returns something unusable.
package scoring

import (
	"context"
	"errors"

	"interviewassist/internal/models"
)

// Source tells where an Outcome's value came from.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// ErrNoRemote is the fallback cause when no remote is configured.
var ErrNoRemote = errors.New("no remote scoring backend configured")

// ErrInvalidPayload marks a remote reply that decoded but failed validation.
var ErrInvalidPayload = errors.New("invalid payload from scoring backend")

// Outcome is the result of a remote-first call. Value is always usable;
// Err holds the remote failure when Source is SourceFallback.
type Outcome[T any] struct {
	Value  T
	Source Source
	Err    error
}

// FellBack reports whether the local fallback produced the value.
func (o Outcome[T]) FellBack() bool {
	return o.Source == SourceFallback
}

// Remote is the external scoring pipeline.
type Remote interface {
	GenerateQuestions(ctx context.Context, req models.QuestionRequest) ([]models.GeneratedQuestion, error)
	ScoreAnswer(ctx context.Context, req models.ScoreRequest) (*models.ScoreResponse, error)
	Finalize(ctx context.Context, req models.FinalizeRequest) (*models.FinalizeResponse, error)
}
