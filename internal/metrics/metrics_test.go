package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Middleware)
	router.Get("/candidates/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/candidates/{id}", "418"))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/candidates/abc", nil))
	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/candidates/{id}", "418"))

	if after-before != 1 {
		t.Fatalf("expected one request counted under the route pattern, got %v", after-before)
	}
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(scoringCalls.WithLabelValues("score_answer", "fallback"))
	RecordScoring("score_answer", "fallback")
	if got := testutil.ToFloat64(scoringCalls.WithLabelValues("score_answer", "fallback")) - before; got != 1 {
		t.Fatalf("expected scoring counter to increase by 1, got %v", got)
	}

	before = testutil.ToFloat64(sessionEvents.WithLabelValues(EventForcedSubmit))
	RecordSessionEvent(EventForcedSubmit)
	if got := testutil.ToFloat64(sessionEvents.WithLabelValues(EventForcedSubmit)) - before; got != 1 {
		t.Fatalf("expected session counter to increase by 1, got %v", got)
	}

	SetSessionActive(true)
	if testutil.ToFloat64(sessionActive) != 1 {
		t.Fatal("expected active gauge to be 1")
	}
	SetSessionActive(false)
	if testutil.ToFloat64(sessionActive) != 0 {
		t.Fatal("expected active gauge to be 0")
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordSessionEvent(EventStarted)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "interviewassist_session_events_total") {
		t.Fatalf("expected session metrics in output")
	}
}
