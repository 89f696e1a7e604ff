package handlers

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"interviewassist/internal/config"
	"interviewassist/internal/interview"
	"interviewassist/internal/kv"
	"interviewassist/internal/middleware"
	"interviewassist/internal/models"
	"interviewassist/internal/notify"
	"interviewassist/internal/session"
	"interviewassist/internal/store"
)

type testEnv struct {
	router  *chi.Mux
	service *interview.Service
	store   *store.MemoryStore
	inbox   *notify.Inbox
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	kvStore := kv.NewMemoryStore()
	candidates := store.NewMemoryStore()
	inbox := notify.NewInbox(time.Minute)
	t.Cleanup(inbox.Close)

	svc := interview.NewService(interview.Deps{
		Repo:     session.NewKVRepository(kvStore),
		Store:    candidates,
		Notifier: inbox,
		Settings: config.NewSettingsRepository(kvStore),
		Logger:   logger,
	})
	t.Cleanup(svc.Wait)

	candidateHandler := NewCandidateHandler(svc, logger)
	sessionHandler := NewSessionHandler(svc, logger, nil)
	noticeHandler := NewNoticeHandler(inbox)
	configHandler := NewConfigHandler(svc, logger)

	r := chi.NewRouter()
	r.With(middleware.ValidateRequest[*models.CreateCandidateRequest]()).Post("/candidates", candidateHandler.CreateHandler)
	r.Post("/candidates/resume", candidateHandler.UploadResumeHandler)
	r.Get("/candidates", candidateHandler.ListHandler)
	r.Get("/candidates/{id}", candidateHandler.GetHandler)
	r.With(middleware.ValidateRequest[*models.UpdateCandidateRequest]()).Patch("/candidates/{id}", candidateHandler.UpdateHandler)
	r.Delete("/candidates/{id}", candidateHandler.DeleteHandler)
	r.Get("/candidates/{id}/result", candidateHandler.ResultHandler)
	r.With(middleware.ValidateRequest[*models.StartSessionRequest]()).Post("/session", sessionHandler.StartHandler)
	r.Get("/session", sessionHandler.ViewHandler)
	r.Delete("/session", sessionHandler.ClearHandler)
	r.With(middleware.ValidateRequest[*models.DraftRequest]()).Put("/session/draft", sessionHandler.DraftHandler)
	r.With(middleware.ValidateRequest[*models.SubmitAnswerRequest]()).Post("/session/answer", sessionHandler.SubmitHandler)
	r.Post("/session/end", sessionHandler.EndHandler)
	r.Post("/session/recovery/continue", sessionHandler.ContinueHandler)
	r.Post("/session/recovery/discard", sessionHandler.DiscardHandler)
	r.Get("/ws/session", sessionHandler.StreamHandler)
	r.Get("/notices", noticeHandler.DrainHandler)
	r.Get("/config", configHandler.GetHandler)
	r.With(middleware.ValidateRequest[*models.SettingsRequest]()).Put("/config", configHandler.UpdateHandler)

	return &testEnv{router: r, service: svc, store: candidates, inbox: inbox}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) addCandidate(t *testing.T, id, name string) {
	t.Helper()
	profile := models.CandidateProfile{ID: id, Name: name, Email: id + "@example.com", CreatedAt: time.Now()}
	if err := e.store.AddCandidate(context.Background(), profile); err != nil {
		t.Fatalf("failed to seed candidate: %v", err)
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func expectErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	expectStatus(t, rec, status)
	resp := decode[models.ErrorResponse](t, rec)
	if resp.Code != code {
		t.Fatalf("expected error code %s, got %s", code, resp.Code)
	}
}

func docxUpload(t *testing.T, filename string, paragraphs ...string) (*bytes.Buffer, string) {
	t.Helper()

	var doc bytes.Buffer
	zw := zip.NewWriter(&doc)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create docx: %v", err)
	}
	w.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`))
	for _, p := range paragraphs {
		w.Write([]byte("<w:p><w:r><w:t>" + p + "</w:t></w:r></w:p>"))
	}
	w.Write([]byte(`</w:body></w:document>`))
	if err := zw.Close(); err != nil {
		t.Fatalf("close docx: %v", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write(doc.Bytes())
	if err := mw.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}
	return &body, mw.FormDataContentType()
}
