package handlers

import (
	"net/http"

	"interviewassist/internal/models"
	"interviewassist/internal/utils"
)

// Drainer hands out pending notices, each only once.
type Drainer interface {
	Drain() []models.Notice
}

type NoticeHandler struct {
	inbox Drainer
}

func NewNoticeHandler(inbox Drainer) *NoticeHandler {
	return &NoticeHandler{inbox: inbox}
}

func (h *NoticeHandler) DrainHandler(w http.ResponseWriter, r *http.Request) {
	notices := h.inbox.Drain()
	if notices == nil {
		notices = []models.Notice{}
	}
	utils.JSON(w, http.StatusOK, notices)
}
