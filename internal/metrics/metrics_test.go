package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"genealogy-app-go/internal/domain/approval"
	"github.com/go-chi/chi/v5"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics handler, got %d", rec.Code)
	}
	return rec.Body.String()
}

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	m := New()
	router := chi.NewRouter()
	router.Use(m.Middleware)
	router.Get("/api/genealogies/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/genealogies/42", nil))

	body := scrape(t, m)
	want := `genealogy_http_requests_total{method="GET",route="/api/genealogies/{id}",status="404"} 1`
	if !strings.Contains(body, want) {
		t.Fatalf("expected %q in exposition, got:\n%s", want, body)
	}
}

func TestApprovalCounters(t *testing.T) {
	m := New()
	m.RequestSubmitted(approval.TypeJoin)
	m.RequestHandled(approval.TypeEdit, approval.ActionApprove)

	body := scrape(t, m)
	for _, want := range []string{
		`genealogy_approvals_submitted_total{type="join"} 1`,
		`genealogy_approvals_handled_total{action="approve",type="edit"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in exposition", want)
		}
	}
}
