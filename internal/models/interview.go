package models

import "time"

// QAItem is one question instance within an interview session.
// Optional fields stay nil until the matching transition happens.
type QAItem struct {
	ID               string     `json:"id"`
	Difficulty       string     `json:"difficulty"`
	Question         string     `json:"question"`
	TimeAllocatedSec int        `json:"timeAllocatedSec"`
	Answer           *string    `json:"answer,omitempty"`
	StartedAt        *time.Time `json:"startedAt,omitempty"`
	SubmittedAt      *time.Time `json:"submittedAt,omitempty"`
	AIScore          *float64   `json:"aiScore,omitempty"`
	AIFeedback       *string    `json:"aiFeedback,omitempty"`
}

// Submitted reports whether an answer has been recorded for the item.
func (q *QAItem) Submitted() bool {
	return q.SubmittedAt != nil
}

// Clone returns a deep copy so callers can't mutate session-owned pointers.
func (q QAItem) Clone() QAItem {
	out := q
	if q.Answer != nil {
		v := *q.Answer
		out.Answer = &v
	}
	if q.StartedAt != nil {
		v := *q.StartedAt
		out.StartedAt = &v
	}
	if q.SubmittedAt != nil {
		v := *q.SubmittedAt
		out.SubmittedAt = &v
	}
	if q.AIScore != nil {
		v := *q.AIScore
		out.AIScore = &v
	}
	if q.AIFeedback != nil {
		v := *q.AIFeedback
		out.AIFeedback = &v
	}
	return out
}

// InterviewSession is the single active or completed interview.
type InterviewSession struct {
	CandidateID  string   `json:"candidateId"`
	Status       string   `json:"status"`
	Items        []QAItem `json:"items"`
	CurrentIndex int      `json:"currentIndex"`
}

// Clone returns a deep copy of the session.
func (s *InterviewSession) Clone() *InterviewSession {
	if s == nil {
		return nil
	}
	out := &InterviewSession{
		CandidateID:  s.CandidateID,
		Status:       s.Status,
		CurrentIndex: s.CurrentIndex,
		Items:        make([]QAItem, len(s.Items)),
	}
	for i, item := range s.Items {
		out.Items[i] = item.Clone()
	}
	return out
}

// CurrentItem returns the active item, or nil when the index is out of range.
func (s *InterviewSession) CurrentItem() *QAItem {
	if s == nil || s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Items) {
		return nil
	}
	return &s.Items[s.CurrentIndex]
}

// GeneratedQuestion is one question as returned by the question generator.
type GeneratedQuestion struct {
	ID         int    `json:"id"`
	Difficulty string `json:"difficulty"`
	Question   string `json:"question"`
	TimeLimit  int    `json:"timeLimit"`
}

// QuestionRequest asks the generator for a question list.
type QuestionRequest struct {
	Role       string         `json:"role"`
	Counts     map[string]int `json:"counts"`
	Seed       int            `json:"seed"`
	TimeLimits map[string]int `json:"timeLimits,omitempty"`
}

// ScoreRequest is sent to the remote scorer for a single answer.
type ScoreRequest struct {
	Question   string `json:"question"`
	Difficulty string `json:"difficulty"`
	Answer     string `json:"answer"`
}

// ScoreResponse carries a 0-10 score and feedback text.
type ScoreResponse struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// FinalizeRequest is sent to the remote finalizer once per session.
type FinalizeRequest struct {
	Items   []QAItem           `json:"items"`
	Profile CandidateProfile   `json:"profile"`
	Weights map[string]float64 `json:"weights,omitempty"`
}

// FinalizeResponse carries the 0-100 final score and summary.
type FinalizeResponse struct {
	FinalScore float64 `json:"finalScore"`
	Summary    string  `json:"summary"`
}
