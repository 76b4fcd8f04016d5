package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"linkkeep/internal/handlers"
	"linkkeep/internal/session"
)

// newTestRouter wires the router with zero-value handler groups. Requests
// without a session cookie never reach Redis, so a nil client suffices for
// routing-level tests.
func newTestRouter() http.Handler {
	sessions := session.NewStore(nil, false)
	return New(sessions, Handlers{
		Auth:        &handlers.Auth{},
		Categories:  &handlers.Categories{},
		Contents:    &handlers.Contents{},
		Collections: &handlers.Collections{},
		Uploads:     &handlers.Uploads{},
	})
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestAPIRequiresAuth(t *testing.T) {
	r := newTestRouter()

	paths := []string{"/categories", "/categories/frequent", "/contents", "/collections"}
	for _, path := range paths {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s: status = %d, want 401", path, rec.Code)
		}
	}
}

func TestMutationsRequireCSRF(t *testing.T) {
	r := newTestRouter()

	// No CSRF cookie/header: the token check fails before auth runs.
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/categories", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("POST /categories without CSRF: status = %d, want 403", rec.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
