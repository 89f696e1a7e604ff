package routers

import (
	"github.com/go-chi/chi/v5"

	"interviewassist/internal/handlers"
	"interviewassist/internal/middleware"
	"interviewassist/internal/models"
)

// APIHandlers groups the handlers mounted under /api/v1.
type APIHandlers struct {
	Candidates *handlers.CandidateHandler
	Session    *handlers.SessionHandler
	Notices    *handlers.NoticeHandler
	Config     *handlers.ConfigHandler
}

func APIRoutes(router *chi.Mux, h APIHandlers) {
	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/candidates", func(r chi.Router) {
			r.With(middleware.ValidateRequest[*models.CreateCandidateRequest]()).Post("/", h.Candidates.CreateHandler)
			r.Get("/", h.Candidates.ListHandler)
			r.Post("/resume", h.Candidates.UploadResumeHandler)
			r.Get("/{id}", h.Candidates.GetHandler)
			r.With(middleware.ValidateRequest[*models.UpdateCandidateRequest]()).Patch("/{id}", h.Candidates.UpdateHandler)
			r.Delete("/{id}", h.Candidates.DeleteHandler)
			r.Get("/{id}/result", h.Candidates.ResultHandler)
		})

		r.Route("/session", func(r chi.Router) {
			r.With(middleware.ValidateRequest[*models.StartSessionRequest]()).Post("/", h.Session.StartHandler)
			r.Get("/", h.Session.ViewHandler)
			r.Delete("/", h.Session.ClearHandler)
			r.With(middleware.ValidateRequest[*models.DraftRequest]()).Put("/draft", h.Session.DraftHandler)
			r.With(middleware.ValidateRequest[*models.SubmitAnswerRequest]()).Post("/answer", h.Session.SubmitHandler)
			r.Post("/end", h.Session.EndHandler)
			r.Post("/recovery/continue", h.Session.ContinueHandler)
			r.Post("/recovery/discard", h.Session.DiscardHandler)
		})

		r.Get("/ws/session", h.Session.StreamHandler)
		r.Get("/notices", h.Notices.DrainHandler)
		r.Get("/config", h.Config.GetHandler)
		r.With(middleware.ValidateRequest[*models.SettingsRequest]()).Put("/config", h.Config.UpdateHandler)
	})
}
