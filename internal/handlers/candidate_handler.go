package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"interviewassist/internal/interview"
	"interviewassist/internal/middleware"
	"interviewassist/internal/models"
	"interviewassist/internal/resume"
	"interviewassist/internal/store"
	"interviewassist/internal/utils"
)

type CandidateHandler struct {
	service *interview.Service
	logger  *zap.Logger
}

func NewCandidateHandler(service *interview.Service, logger *zap.Logger) *CandidateHandler {
	return &CandidateHandler{service: service, logger: logger}
}

// UploadResponse is returned for a parsed resume. Missing names the contact
// fields the resume did not yield; they can be filled in with PATCH.
type UploadResponse struct {
	Profile *models.CandidateProfile `json:"profile"`
	Missing []string                 `json:"missing"`
}

func (h *CandidateHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CreateCandidateRequest](r)

	profile, err := h.service.AddCandidate(r.Context(), models.CandidateProfile{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusCreated, profile)
}

// UploadResumeHandler accepts a multipart "file" field holding a PDF or
// DOCX resume. Optional name, email and phone form fields override what was
// parsed.
func (h *CandidateHandler) UploadResumeHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, resume.MaxFileSize+(1<<20))
	if err := r.ParseMultipartForm(resume.MaxFileSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, h.logger, resume.ErrTooLarge)
			return
		}
		utils.Error(w, http.StatusBadRequest, "invalid_form", "Expected a multipart form with a file field")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "missing_file", "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, resume.MaxFileSize+1))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid_file", "Failed to read uploaded file")
		return
	}

	parsed, err := resume.Parse(header.Filename, data)
	if err != nil {
		h.logger.Info("Resume rejected",
			zap.String("filename", header.Filename),
			zap.Error(err))
		writeError(w, h.logger, err)
		return
	}

	for field, dst := range map[string]*string{"name": &parsed.Name, "email": &parsed.Email, "phone": &parsed.Phone} {
		if v := strings.TrimSpace(r.FormValue(field)); v != "" {
			*dst = v
		}
	}

	profile, err := h.service.AddCandidate(r.Context(), models.CandidateProfile{
		Name:       parsed.Name,
		Email:      parsed.Email,
		Phone:      parsed.Phone,
		ResumeMeta: parsed.Meta,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("Resume parsed",
		zap.String("candidate_id", profile.ID),
		zap.String("type", parsed.Meta.Type),
		zap.Strings("missing", parsed.Missing()))
	utils.JSON(w, http.StatusCreated, UploadResponse{Profile: profile, Missing: parsed.Missing()})
}

// ListHandler serves the interviewer table: ?search=&sort=score|date|name&order=asc|desc
func (h *CandidateHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	opts := store.ListOptions{
		Search: utils.NormalizeSearch(query.Get("search")),
		SortBy: strings.ToLower(query.Get("sort")),
		Order:  strings.ToLower(query.Get("order")),
	}
	if opts.SortBy != "" && !models.ValidSortKeys[opts.SortBy] {
		utils.Error(w, http.StatusBadRequest, "invalid_sort", "sort must be one of score, date, name")
		return
	}
	if opts.Order != "" && opts.Order != models.SortAsc && opts.Order != models.SortDesc {
		utils.Error(w, http.StatusBadRequest, "invalid_order", "order must be asc or desc")
		return
	}

	rows, err := h.service.ListCandidates(r.Context(), opts)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, rows)
}

func (h *CandidateHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	row, err := h.service.GetCandidate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, row)
}

func (h *CandidateHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.UpdateCandidateRequest](r)

	profile, err := h.service.UpdateCandidate(r.Context(), chi.URLParam(r, "id"), req.ProfileUpdate)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, profile)
}

func (h *CandidateHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveCandidate(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CandidateHandler) ResultHandler(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Result(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		utils.Error(w, http.StatusNotFound, "result_not_found", "no result for this candidate")
		return
	}
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}
