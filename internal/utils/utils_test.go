package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"interviewassist/internal/models"
)

func TestNormalizeHelpers(t *testing.T) {
	if got := NormalizeDifficulty("  Medium "); got != "medium" {
		t.Fatalf("NormalizeDifficulty: expected medium, got %s", got)
	}

	if got := NormalizeSearch(" ADA "); got != "ada" {
		t.Fatalf("NormalizeSearch: expected ada, got %s", got)
	}
}

func TestStripFences(t *testing.T) {
	input := "```json\n{\"score\": 7}\n```\n"
	want := `{"score": 7}`

	if got := StripFences(input); got != want {
		t.Fatalf("StripFences: expected %q, got %q", want, got)
	}

	raw := `  {"score": 7}  `
	if got := StripFences(raw); got != want {
		t.Fatalf("StripFences (no fences): expected trimmed string, got %q", got)
	}

	if got := StripFences("```"); got != "" {
		t.Fatalf("StripFences (bare fence): expected empty, got %q", got)
	}
}

func TestJSONHelpers(t *testing.T) {
	rec := httptest.NewRecorder()
	payload := map[string]string{"hello": "world"}

	JSON(rec, http.StatusCreated, payload)

	if rec.Code != http.StatusCreated {
		t.Fatalf("JSON: expected status %d, got %d", http.StatusCreated, rec.Code)
	}
	if contentType := rec.Header().Get("Content-Type"); contentType != "application/json" {
		t.Fatalf("JSON: expected content-type application/json, got %s", contentType)
	}

	var got map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("JSON decode failed: %v", err)
	}
	if got["hello"] != "world" {
		t.Fatalf("JSON body mismatch: %+v", got)
	}
}

func TestErrorHelper(t *testing.T) {
	rec := httptest.NewRecorder()

	Error(rec, http.StatusNotFound, "candidate_not_found", "no such candidate")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Error: expected status 404, got %d", rec.Code)
	}
	var body models.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.Code != "candidate_not_found" {
		t.Fatalf("Error: unexpected code %q", body.Code)
	}
}
