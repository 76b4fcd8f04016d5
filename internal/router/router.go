// Package router sets up all HTTP routes and middleware chains for the
// linkkeep API. Routes are organized into auth and authenticated API
// groups with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"linkkeep/internal/handlers"
	"linkkeep/internal/middleware"
	"linkkeep/internal/session"
)

// Handlers bundles the per-resource handler groups the router wires up.
type Handlers struct {
	Auth        *handlers.Auth
	Categories  *handlers.Categories
	Contents    *handlers.Contents
	Collections *handlers.Collections
	Uploads     *handlers.Uploads
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check: no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Auth endpoints. Login and register are rate-limited against
	// credential stuffing.
	r.Route("/auth", func(r chi.Router) {
		r.Use(middleware.CSRF)

		loginLimiter := middleware.NewRateLimiter(10, time.Minute)
		r.Group(func(r chi.Router) {
			r.Use(loginLimiter.Middleware)
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
		})

		r.Post("/logout", h.Auth.Logout)

		// 2FA requires auth but NOT completed verification.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/2fa/setup", h.Auth.TwoFASetup)
			r.Post("/2fa/verify", h.Auth.TwoFAVerify)
			r.Get("/me", h.Auth.Me)
		})
	})

	// Authenticated, 2FA-verified API.
	r.Group(func(r chi.Router) {
		r.Use(middleware.CSRF)
		r.Use(middleware.RequireAuth)
		r.Use(middleware.Require2FA)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.Categories.Tree)
			r.Get("/frequent", h.Categories.Frequent)
			r.Post("/", h.Categories.Create)
			r.Get("/{id}/family", h.Categories.Family)
			r.Patch("/{id}", h.Categories.Update)
			r.Delete("/{id}", h.Categories.Delete)
		})

		r.Route("/contents", func(r chi.Router) {
			r.Get("/", h.Contents.List)
			r.Post("/", h.Contents.Create)
			r.Get("/{id}", h.Contents.Get)
			r.Delete("/{id}", h.Contents.Delete)
			r.Post("/{id}/summarize", h.Contents.Summarize)
			r.Post("/{id}/thumbnail", h.Uploads.Thumbnail)
		})

		r.Route("/collections", func(r chi.Router) {
			r.Get("/", h.Collections.List)
			r.Post("/", h.Collections.Create)
			r.Put("/{id}", h.Collections.Update)
			r.Delete("/{id}", h.Collections.Delete)
			r.Get("/{id}/items", h.Collections.Items)
			r.Put("/{id}/items/{contentID}", h.Collections.AddItem)
			r.Delete("/{id}/items/{contentID}", h.Collections.RemoveItem)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
