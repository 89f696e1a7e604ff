package models

import "time"

// uniform error responses
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []ValidationErrorDetail `json:"details,omitempty"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// single field validation error
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// SessionView is the read-only projection of the session consumed by presentation.
type SessionView struct {
	Session          *InterviewSession `json:"session"`
	Active           bool              `json:"active"`
	Draft            string            `json:"draft"`
	RemainingSeconds float64           `json:"remainingSeconds"`
	TimerRunning     bool              `json:"timerRunning"`
	RecoveryPending  bool              `json:"recoveryPending"`
	SubmitInFlight   bool              `json:"submitInFlight"`
	Result           *CandidateResult  `json:"result,omitempty"`
}

// Notice is a non-fatal notification surfaced to the user.
type Notice struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"` // "info" | "warning" | "error" | "success"
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// notice levels
const (
	NoticeInfo    = "info"
	NoticeSuccess = "success"
	NoticeWarning = "warning"
	NoticeError   = "error"
)
