package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"interviewassist/internal/models"
)

func TestCandidateCRUD(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/candidates", `{"name":" Ada Lovelace ","email":"ada@example.com","phone":"555-0100"}`)
	expectStatus(t, rec, http.StatusCreated)
	created := decode[models.CandidateProfile](t, rec)
	if created.ID == "" || created.Name != "Ada Lovelace" {
		t.Fatalf("unexpected profile: %+v", created)
	}

	rec = env.do(t, http.MethodGet, "/candidates/"+created.ID, "")
	expectStatus(t, rec, http.StatusOK)
	row := decode[models.CandidateRow](t, rec)
	if row.Profile.Email != "ada@example.com" || row.Result != nil {
		t.Fatalf("unexpected row: %+v", row)
	}

	rec = env.do(t, http.MethodPatch, "/candidates/"+created.ID, `{"phone":"555-0199"}`)
	expectStatus(t, rec, http.StatusOK)
	if got := decode[models.CandidateProfile](t, rec); got.Phone != "555-0199" {
		t.Fatalf("expected updated phone, got %s", got.Phone)
	}

	rec = env.do(t, http.MethodGet, "/candidates/"+created.ID+"/result", "")
	expectErrorCode(t, rec, http.StatusNotFound, "result_not_found")

	rec = env.do(t, http.MethodDelete, "/candidates/"+created.ID, "")
	expectStatus(t, rec, http.StatusNoContent)

	rec = env.do(t, http.MethodGet, "/candidates/"+created.ID, "")
	expectErrorCode(t, rec, http.StatusNotFound, "candidate_not_found")
}

func TestCreateCandidateValidation(t *testing.T) {
	env := newTestEnv(t)

	expectErrorCode(t, env.do(t, http.MethodPost, "/candidates", `{"email":"a@example.com"}`), http.StatusBadRequest, "missing_name")
	expectErrorCode(t, env.do(t, http.MethodPost, "/candidates", `{"name":"A","email":"nope"}`), http.StatusBadRequest, "invalid_email")
	expectErrorCode(t, env.do(t, http.MethodPatch, "/candidates/x", `{}`), http.StatusBadRequest, "empty_update")
}

func TestListCandidates(t *testing.T) {
	env := newTestEnv(t)
	env.addCandidate(t, "c1", "Zed Alpha")
	env.addCandidate(t, "c2", "Amy Beta")

	rec := env.do(t, http.MethodGet, "/candidates?sort=name&order=asc", "")
	expectStatus(t, rec, http.StatusOK)
	rows := decode[[]models.CandidateRow](t, rec)
	if len(rows) != 2 || rows[0].Profile.Name != "Amy Beta" {
		t.Fatalf("unexpected order: %+v", rows)
	}

	rec = env.do(t, http.MethodGet, "/candidates?search=ZED", "")
	expectStatus(t, rec, http.StatusOK)
	if rows := decode[[]models.CandidateRow](t, rec); len(rows) != 1 || rows[0].Profile.ID != "c1" {
		t.Fatalf("unexpected search result: %+v", rows)
	}

	expectErrorCode(t, env.do(t, http.MethodGet, "/candidates?sort=age", ""), http.StatusBadRequest, "invalid_sort")
	expectErrorCode(t, env.do(t, http.MethodGet, "/candidates?order=up", ""), http.StatusBadRequest, "invalid_order")
}

func TestUploadResume(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := docxUpload(t, "resume.docx",
		"Jane Doe",
		"jane@example.com",
		"Backend engineer with years of experience in distributed systems and APIs.",
	)
	req := httptest.NewRequest(http.MethodPost, "/candidates/resume", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	expectStatus(t, rec, http.StatusCreated)
	resp := decode[UploadResponse](t, rec)
	if resp.Profile.Name != "Jane Doe" || resp.Profile.Email != "jane@example.com" {
		t.Fatalf("unexpected profile: %+v", resp.Profile)
	}
	if resp.Profile.ResumeMeta.Type != models.ResumeTypeDOCX {
		t.Fatalf("unexpected resume meta: %+v", resp.Profile.ResumeMeta)
	}
	if len(resp.Missing) != 1 || resp.Missing[0] != "phone" {
		t.Fatalf("expected phone to be missing, got %v", resp.Missing)
	}
}

func TestUploadResumeRejected(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := docxUpload(t, "resume.txt", "Jane Doe")
	req := httptest.NewRequest(http.MethodPost, "/candidates/resume", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	expectErrorCode(t, rec, http.StatusUnprocessableEntity, "unsupported_file_type")

	body, contentType = docxUpload(t, "short.docx", "Jane Doe")
	req = httptest.NewRequest(http.MethodPost, "/candidates/resume", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	expectErrorCode(t, rec, http.StatusUnprocessableEntity, "no_text")

	req = httptest.NewRequest(http.MethodPost, "/candidates/resume", strings.NewReader("plain"))
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	expectErrorCode(t, rec, http.StatusBadRequest, "invalid_form")
}
