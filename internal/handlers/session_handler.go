package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"interviewassist/internal/interview"
	"interviewassist/internal/middleware"
	"interviewassist/internal/models"
	"interviewassist/internal/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type SessionHandler struct {
	service  *interview.Service
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewSessionHandler(service *interview.Service, logger *zap.Logger, checkOrigin func(*http.Request) bool) *SessionHandler {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &SessionHandler{
		service:  service,
		logger:   logger,
		upgrader: websocket.Upgrader{CheckOrigin: checkOrigin},
	}
}

// StreamFrame is one websocket message.
type StreamFrame struct {
	Type string             `json:"type"`
	Data models.SessionView `json:"data"`
}

func (h *SessionHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.StartSessionRequest](r)

	view, err := h.service.StartInterview(r.Context(), req.CandidateID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusCreated, view)
}

func (h *SessionHandler) ViewHandler(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.service.View())
}

func (h *SessionHandler) DraftHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.DraftRequest](r)

	if err := h.service.SaveDraft(r.Context(), req.Answer); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SubmitAnswerRequest](r)

	view, err := h.service.SubmitAnswer(r.Context(), req.Answer)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, view)
}

func (h *SessionHandler) EndHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.EndEarly(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, view)
}

func (h *SessionHandler) ContinueHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.ContinueRecovered(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, view)
}

func (h *SessionHandler) DiscardHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DiscardRecovered(r.Context()); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) ClearHandler(w http.ResponseWriter, r *http.Request) {
	h.service.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// StreamHandler pushes a session frame on every change and tick until the
// client goes away.
func (h *SessionHandler) StreamHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	views, unsubscribe := h.service.Subscribe()
	defer unsubscribe()

	// the read loop only handles control frames and notices the close
	closed := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case view, ok := <-views:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(StreamFrame{Type: "session", Data: view}); err != nil {
				h.logger.Debug("WebSocket write failed", zap.Error(err))
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
