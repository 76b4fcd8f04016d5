package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"linkkeep/internal/session"
)

func withSession(r *http.Request, data *session.Data) *http.Request {
	ctx := context.WithValue(r.Context(), SessionKey, data)
	return r.WithContext(ctx)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	called := false
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories", nil))

	if called {
		t.Error("handler should not be called without a session")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "authentication required") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestRequireAuthPassesAuthenticated(t *testing.T) {
	called := false
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := withSession(httptest.NewRequest(http.MethodGet, "/categories", nil),
		&session.Data{UserID: uuid.New(), Email: "a@b.c", TwoFADone: true})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("handler should be called with a session")
	}
}

func TestRequire2FA(t *testing.T) {
	handler := Require2FA(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Pending 2FA is rejected.
	req := withSession(httptest.NewRequest(http.MethodGet, "/contents", nil),
		&session.Data{UserID: uuid.New(), TwoFADone: false})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}

	// Completed 2FA passes.
	req = withSession(httptest.NewRequest(http.MethodGet, "/contents", nil),
		&session.Data{UserID: uuid.New(), TwoFADone: true})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestSessionFromCtxEmpty(t *testing.T) {
	if got := SessionFromCtx(context.Background()); got != nil {
		t.Errorf("SessionFromCtx on empty context = %+v, want nil", got)
	}
}
