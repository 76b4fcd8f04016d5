package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"linkkeep/internal/middleware"
	"linkkeep/internal/session"
	"linkkeep/internal/store"
)

// totpIssuer is the issuer shown in authenticator apps.
const totpIssuer = "linkkeep"

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
	saveLog   *store.SaveLogStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore, saveLog *store.SaveLogStore) *Auth {
	return &Auth{sessions: sessions, userStore: userStore, saveLog: saveLog}
}

// Register creates an account and opens a session. Users without TOTP
// enrolled get TwoFADone=true; 2FA becomes mandatory once enabled.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Nickname string `json:"nickname"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if msg := validateCredentials(req.Email, req.Password, req.Nickname); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := a.userStore.FindByEmail(r.Context(), req.Email)
	if err != nil {
		slog.Error("register lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}

	user, err := a.userStore.Create(r.Context(), req.Email, req.Password, req.Nickname)
	if err != nil {
		slog.Error("register create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    user.ID,
		Email:     user.Email,
		Nickname:  user.Nickname,
		TwoFADone: true, // no TOTP enrolled yet
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and opens a session. When the user has TOTP
// enabled the session starts with TwoFADone=false and the client must call
// the 2FA verify endpoint before using the API.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := a.userStore.FindByEmail(r.Context(), req.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    user.ID,
		Email:     user.Email,
		Nickname:  user.Nickname,
		TwoFADone: !user.TOTPEnabled,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":            user,
		"two_fa_required": user.TOTPEnabled,
	})
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the current session identity and the user's lifetime save
// count. A count failure degrades to zero rather than failing the request.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	saves, err := a.saveLog.CountForOwner(r.Context(), sess.UserID)
	if err != nil {
		slog.Warn("save count failed", "error", err, "owner_id", sess.UserID)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":       sess,
		"save_count": saves,
	})
}

// TwoFASetup generates a TOTP secret for the current user and returns the
// otpauth URL plus a base64 PNG QR code for enrollment.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := a.userStore.SetTOTPSecret(r.Context(), sess.UserID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"secret": key.Secret(),
		"url":    key.URL(),
		"qr_png": base64.StdEncoding.EncodeToString(qrPNG),
	})
}

// TwoFAVerify validates a TOTP code. On first successful verification the
// secret becomes permanently enabled; in all cases the session is marked
// 2FA-complete.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.userStore.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user.TOTPSecret == nil {
		writeError(w, http.StatusBadRequest, "two-factor setup not started")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		writeError(w, http.StatusUnauthorized, "invalid code")
		return
	}

	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(r.Context(), user.ID); err != nil {
			slog.Error("enable totp failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}
