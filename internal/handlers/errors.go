package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"interviewassist/internal/interview"
	"interviewassist/internal/models"
	"interviewassist/internal/resume"
	"interviewassist/internal/session"
	"interviewassist/internal/store"
	"interviewassist/internal/utils"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// ordered: the first match wins
var errorMappings = []errorMapping{
	{interview.ErrCandidateNotFound, http.StatusNotFound, "candidate_not_found"},
	{store.ErrNotFound, http.StatusNotFound, "not_found"},
	{store.ErrDuplicate, http.StatusConflict, "duplicate_candidate"},
	{session.ErrSessionInProgress, http.StatusConflict, "session_in_progress"},
	{interview.ErrRecoveryPending, http.StatusConflict, "recovery_pending"},
	{interview.ErrNoRecoveryPending, http.StatusConflict, "no_recovery_pending"},
	{interview.ErrNoActiveSession, http.StatusConflict, "no_active_session"},
	{interview.ErrSubmissionInFlight, http.StatusConflict, "submission_in_flight"},
	{interview.ErrSessionChanged, http.StatusConflict, "session_changed"},
	{interview.ErrProfileLocked, http.StatusConflict, "profile_locked"},
	{session.ErrNoItems, http.StatusServiceUnavailable, "no_questions"},
	{resume.ErrTooLarge, http.StatusRequestEntityTooLarge, "file_too_large"},
	{resume.ErrUnsupportedType, http.StatusUnprocessableEntity, "unsupported_file_type"},
	{resume.ErrUnreadable, http.StatusUnprocessableEntity, "unreadable_file"},
	{resume.ErrNoText, http.StatusUnprocessableEntity, "no_text"},
}

// writeError maps service errors onto ErrorResponses. Anything unmapped is
// logged and reported as a 500 without its message.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var errResp *models.ErrorResponse
	if errors.As(err, &errResp) {
		utils.JSON(w, http.StatusBadRequest, *errResp)
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			utils.Error(w, m.status, m.code, m.err.Error())
			return
		}
	}

	logger.Error("Request failed", zap.Error(err))
	utils.Error(w, http.StatusInternalServerError, "internal_error", "Internal server error")
}
