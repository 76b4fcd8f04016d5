package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"linkkeep/internal/ai"
	"linkkeep/internal/cache"
	"linkkeep/internal/category"
	"linkkeep/internal/middleware"
	"linkkeep/internal/models"
	"linkkeep/internal/ranking"
	"linkkeep/internal/storage"
	"linkkeep/internal/store"
)

// Contents groups the saved-link HTTP handlers.
type Contents struct {
	contents   *store.ContentStore
	categories *category.Service
	ranker     *ranking.Ranker
	summaries  *cache.SummaryCache
	providers  *ai.Registry
	provider   string          // active provider name
	objects    *storage.Client // nil when object storage is not configured
}

// NewContents creates a new Contents handler group.
func NewContents(
	contents *store.ContentStore,
	categories *category.Service,
	ranker *ranking.Ranker,
	summaries *cache.SummaryCache,
	providers *ai.Registry,
	provider string,
	objects *storage.Client,
) *Contents {
	return &Contents{
		contents:   contents,
		categories: categories,
		ranker:     ranker,
		summaries:  summaries,
		providers:  providers,
		provider:   provider,
		objects:    objects,
	}
}

// Create saves a link. The target category comes either from category_id
// or from category_name (looked up or created under parent_id). Saving a
// link that already exists in the category's family is rejected; a
// successful save is recorded in the frequency log.
func (h *Contents) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		Link         string     `json:"link"`
		Title        string     `json:"title"`
		CategoryID   *uuid.UUID `json:"category_id"`
		CategoryName string     `json:"category_name"`
		ParentID     *uuid.UUID `json:"parent_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Link = strings.TrimSpace(req.Link)

	if msg := validateLink(req.Link); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validateTitle(req.Title); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	cat, err := h.resolveCategory(r, sess.UserID, req.CategoryID, req.CategoryName, req.ParentID)
	if err != nil {
		writeCategoryError(w, err, sess.UserID)
		return
	}

	var catID *uuid.UUID
	if cat != nil {
		catID = &cat.ID

		err = h.ranker.RecordSave(r.Context(), sess.UserID, cat, req.Link)
		if errors.Is(err, ranking.ErrContentDuplicate) {
			writeError(w, http.StatusConflict, "link already saved in this category family")
			return
		}
		if err != nil {
			slog.Error("record save failed", "error", err, "owner_id", sess.UserID)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	created, err := h.contents.Create(r.Context(), &models.Content{
		OwnerID:    sess.UserID,
		CategoryID: catID,
		Link:       req.Link,
		Title:      req.Title,
	})
	if err != nil {
		slog.Error("content create failed", "error", err, "owner_id", sess.UserID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// resolveCategory picks the save target: an explicit category_id wins,
// otherwise a non-empty category_name is looked up or created under
// parent_id. Both absent means uncategorized.
func (h *Contents) resolveCategory(r *http.Request, ownerID uuid.UUID, categoryID *uuid.UUID, name string, parentID *uuid.UUID) (*models.Category, error) {
	if categoryID != nil {
		cat, err := h.categories.Get(r.Context(), ownerID, *categoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, category.ErrCategoryNotFound
		}
		return cat, nil
	}
	if strings.TrimSpace(name) != "" {
		return h.categories.GetOrCreate(r.Context(), ownerID, name, parentID)
	}
	return nil, nil
}

// List returns the user's saved links, optionally filtered by category.
func (h *Contents) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var categoryID *uuid.UUID
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid category id")
			return
		}
		categoryID = &id
	}

	items, err := h.contents.ListForOwner(r.Context(), sess.UserID, categoryID)
	if err != nil {
		slog.Error("content list failed", "error", err, "owner_id", sess.UserID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if items == nil {
		items = []models.Content{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Get returns a single saved link.
func (h *Contents) Get(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid content id")
		return
	}

	item, err := h.contents.FindByID(r.Context(), id, sess.UserID)
	if err != nil {
		slog.Error("content get failed", "error", err, "owner_id", sess.UserID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "content not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Delete removes a saved link and its stored thumbnail, if any.
func (h *Contents) Delete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid content id")
		return
	}

	item, err := h.contents.FindByID(r.Context(), id, sess.UserID)
	if err != nil {
		slog.Error("content lookup failed", "error", err, "owner_id", sess.UserID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "content not found")
		return
	}

	if err := h.contents.Delete(r.Context(), id, sess.UserID); err != nil {
		slog.Error("content delete failed", "error", err, "owner_id", sess.UserID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// Thumbnail cleanup is best-effort; an orphan object costs pennies.
	if h.objects != nil && item.ThumbnailKey != nil {
		if err := h.objects.Delete(r.Context(), *item.ThumbnailKey); err != nil {
			slog.Warn("thumbnail delete failed", "key", *item.ThumbnailKey, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Summarize generates (or returns a cached) AI summary for a saved link.
// The client supplies the article text; the summary is cached by link and
// persisted on the content row.
func (h *Contents) Summarize(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid content id")
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	item, err := h.contents.FindByID(r.Context(), id, sess.UserID)
	if err != nil {
		slog.Error("content lookup failed", "error", err, "owner_id", sess.UserID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "content not found")
		return
	}

	if summary, ok := h.summaries.Get(r.Context(), item.Link); ok {
		writeJSON(w, http.StatusOK, map[string]any{"summary": summary, "cached": true})
		return
	}

	provider, err := h.providers.Get(h.provider)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "summarization is not configured")
		return
	}

	summary, err := provider.Summarize(r.Context(), ai.SummarizeRequest{
		Title: item.Title,
		Text:  req.Text,
	})
	if err != nil {
		slog.Error("summarize failed", "error", err, "provider", h.provider)
		writeError(w, http.StatusBadGateway, "summarization failed")
		return
	}
	if utf8.RuneCountInString(summary) > maxSummaryLen {
		summary = string([]rune(summary)[:maxSummaryLen])
	}

	if err := h.summaries.Set(r.Context(), item.Link, summary); err != nil {
		slog.Warn("summary cache set failed", "error", err)
	}
	if err := h.contents.SetSummary(r.Context(), id, sess.UserID, summary); err != nil {
		slog.Error("summary persist failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"summary": summary, "cached": false})
}
