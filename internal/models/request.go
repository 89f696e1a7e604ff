package models

import (
	"strings"
)

type CreateCandidateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// implements the Validator interface
func (r *CreateCandidateRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)

	if r.Name == "" {
		return &ErrorResponse{Code: "missing_name", Message: "name is required"}
	}
	if r.Email == "" {
		return &ErrorResponse{Code: "missing_email", Message: "email is required"}
	}
	if !strings.Contains(r.Email, "@") {
		return &ErrorResponse{Code: "invalid_email", Message: "email must be a valid address"}
	}
	return nil
}

type UpdateCandidateRequest struct {
	ProfileUpdate
}

func (r *UpdateCandidateRequest) Validate() error {
	if r.Name == nil && r.Email == nil && r.Phone == nil {
		return &ErrorResponse{Code: "empty_update", Message: "at least one of name, email, phone is required"}
	}
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		if trimmed == "" {
			return &ErrorResponse{Code: "missing_name", Message: "name must not be empty"}
		}
		r.Name = &trimmed
	}
	if r.Email != nil {
		trimmed := strings.TrimSpace(*r.Email)
		if !strings.Contains(trimmed, "@") {
			return &ErrorResponse{Code: "invalid_email", Message: "email must be a valid address"}
		}
		r.Email = &trimmed
	}
	if r.Phone != nil {
		trimmed := strings.TrimSpace(*r.Phone)
		r.Phone = &trimmed
	}
	return nil
}

type StartSessionRequest struct {
	CandidateID string `json:"candidateId"`
}

func (r *StartSessionRequest) Validate() error {
	r.CandidateID = strings.TrimSpace(r.CandidateID)
	if r.CandidateID == "" {
		return &ErrorResponse{Code: "missing_candidate_id", Message: "candidateId is required"}
	}
	return nil
}

// SubmitAnswerRequest submits the current question. A nil Answer submits the held draft.
type SubmitAnswerRequest struct {
	Answer *string `json:"answer"`
}

func (r *SubmitAnswerRequest) Validate() error {
	return nil
}

type DraftRequest struct {
	Answer string `json:"answer"`
}

func (r *DraftRequest) Validate() error {
	return nil
}

// SettingsRequest updates interview settings; zero-valued fields are left untouched.
type SettingsRequest struct {
	TimerValues     map[string]int     `json:"timerValues,omitempty"`
	DifficultyOrder []string           `json:"difficultyOrder,omitempty"`
	ScoringWeights  map[string]float64 `json:"scoringWeights,omitempty"`
}

func (r *SettingsRequest) Validate() error {
	for difficulty, seconds := range r.TimerValues {
		if !ValidDifficulties[difficulty] {
			return &ErrorResponse{Code: "invalid_difficulty", Message: "unknown difficulty: " + difficulty}
		}
		if seconds <= 0 {
			return &ErrorResponse{Code: "invalid_timer_value", Message: "timer values must be positive"}
		}
	}
	for i, difficulty := range r.DifficultyOrder {
		normalized := strings.ToLower(strings.TrimSpace(difficulty))
		if !ValidDifficulties[normalized] {
			return &ErrorResponse{Code: "invalid_difficulty", Message: "unknown difficulty: " + difficulty}
		}
		r.DifficultyOrder[i] = normalized
	}
	for difficulty, weight := range r.ScoringWeights {
		if !ValidDifficulties[difficulty] {
			return &ErrorResponse{Code: "invalid_difficulty", Message: "unknown difficulty: " + difficulty}
		}
		if weight <= 0 {
			return &ErrorResponse{Code: "invalid_weight", Message: "scoring weights must be positive"}
		}
	}
	return nil
}
