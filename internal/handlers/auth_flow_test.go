package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"

	"linkkeep/internal/models"
)

// jsonReq builds an unauthenticated JSON request.
func jsonReq(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegisterLoginLogout(t *testing.T) {
	env := newTestEnv(t)

	email := "flow-" + uuid.NewString() + "@example.com"

	// Register opens a session.
	rec := httptest.NewRecorder()
	env.Auth.Register(rec, jsonReq(t, http.MethodPost, "/auth/register", map[string]string{
		"email":    email,
		"password": "password123",
		"nickname": "reader",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var user models.User
	decodeBody(t, rec, &user)
	t.Cleanup(func() { env.Users.Delete(t.Context(), user.ID) })

	if len(rec.Result().Cookies()) == 0 {
		t.Error("register should set a session cookie")
	}

	// Duplicate registration is rejected.
	rec = httptest.NewRecorder()
	env.Auth.Register(rec, jsonReq(t, http.MethodPost, "/auth/register", map[string]string{
		"email":    email,
		"password": "password123",
	}))
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register: status = %d, want 409", rec.Code)
	}

	// Wrong password fails.
	rec = httptest.NewRecorder()
	env.Auth.Login(rec, jsonReq(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": "wrong-password",
	}))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login: status = %d, want 401", rec.Code)
	}

	// Correct credentials succeed; no 2FA required yet.
	rec = httptest.NewRecorder()
	env.Auth.Login(rec, jsonReq(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": "password123",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var loginResp struct {
		TwoFARequired bool `json:"two_fa_required"`
	}
	decodeBody(t, rec, &loginResp)
	if loginResp.TwoFARequired {
		t.Error("2FA should not be required before enrollment")
	}
}

func TestTwoFAEnrollment(t *testing.T) {
	env := newTestEnv(t)
	user := newTestUser(t, env)
	cookie := sessionCookie(t, env, user)

	// Setup returns a secret and QR payload.
	rec := httptest.NewRecorder()
	env.Auth.TwoFASetup(rec, authed(t, user, http.MethodPost, "/auth/2fa/setup", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("setup: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var setup struct {
		Secret string `json:"secret"`
		URL    string `json:"url"`
		QRPNG  string `json:"qr_png"`
	}
	decodeBody(t, rec, &setup)
	if setup.Secret == "" || setup.URL == "" || setup.QRPNG == "" {
		t.Fatalf("incomplete setup payload: %+v", setup)
	}

	// A bogus code is rejected.
	req := authed(t, user, http.MethodPost, "/auth/2fa/verify", map[string]string{"code": "000000"})
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	env.Auth.TwoFAVerify(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bogus code: status = %d, want 401", rec.Code)
	}

	// A valid TOTP code enables 2FA.
	code, err := totp.GenerateCode(setup.Secret, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	req = authed(t, user, http.MethodPost, "/auth/2fa/verify", map[string]string{"code": code})
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	env.Auth.TwoFAVerify(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	stored, err := env.Users.FindByID(t.Context(), user.ID)
	if err != nil || stored == nil {
		t.Fatalf("reload user: %v", err)
	}
	if !stored.TOTPEnabled {
		t.Error("TOTP should be enabled after verification")
	}
}

func TestMeReportsSaveCount(t *testing.T) {
	env := newTestEnv(t)
	user := newTestUser(t, env)

	catID := uuid.New()
	for range 2 {
		if err := env.SaveLog.Append(t.Context(), user.ID, models.SaveLogEntry{
			CategoryID: catID,
			SavedAt:    time.Now(),
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	env.Auth.Me(rec, authed(t, user, http.MethodGet, "/auth/me", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
		SaveCount int `json:"save_count"`
	}
	decodeBody(t, rec, &resp)
	if resp.User.Email != user.Email {
		t.Errorf("email = %q, want %q", resp.User.Email, user.Email)
	}
	if resp.SaveCount != 2 {
		t.Errorf("save_count = %d, want 2", resp.SaveCount)
	}
}
