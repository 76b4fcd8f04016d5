package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"linkkeep/internal/middleware"
	"linkkeep/internal/models"
	"linkkeep/internal/store"
)

// Collections groups the collection HTTP handlers. Collections are flat,
// user-defined groupings of saved links, independent of the category tree.
type Collections struct {
	collections *store.CollectionStore
	contents    *store.ContentStore
}

// NewCollections creates a new Collections handler group.
func NewCollections(collections *store.CollectionStore, contents *store.ContentStore) *Collections {
	return &Collections{collections: collections, contents: contents}
}

// List returns the user's collections with item counts.
func (h *Collections) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	items, err := h.collections.List(r.Context(), sess.UserID)
	if err != nil {
		slog.Error("collection list failed", "error", err, "owner_id", sess.UserID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if items == nil {
		items = []models.Collection{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Create adds a collection.
func (h *Collections) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateCollection(req.Name, req.Description); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.collections.Create(r.Context(), &models.Collection{
		OwnerID:     sess.UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	})
	if err != nil {
		slog.Error("collection create failed", "error", err, "owner_id", sess.UserID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update modifies a collection's name and description.
func (h *Collections) Update(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	coll, ok := h.lookup(w, r, sess.UserID)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateCollection(req.Name, req.Description); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	coll.Name = strings.TrimSpace(req.Name)
	coll.Description = req.Description
	if err := h.collections.Update(r.Context(), coll); err != nil {
		slog.Error("collection update failed", "error", err, "owner_id", sess.UserID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, coll)
}

// Delete removes a collection; the saved links inside it are untouched.
func (h *Collections) Delete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	coll, ok := h.lookup(w, r, sess.UserID)
	if !ok {
		return
	}

	if err := h.collections.Delete(r.Context(), coll.ID, sess.UserID); err != nil {
		slog.Error("collection delete failed", "error", err, "owner_id", sess.UserID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Items returns the saved links in a collection, most recently added first.
func (h *Collections) Items(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	coll, ok := h.lookup(w, r, sess.UserID)
	if !ok {
		return
	}

	items, err := h.collections.ListContents(r.Context(), coll.ID)
	if err != nil {
		slog.Error("collection items failed", "error", err, "owner_id", sess.UserID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if items == nil {
		items = []models.Content{}
	}
	writeJSON(w, http.StatusOK, items)
}

// AddItem puts a saved link into a collection. Adding twice is a no-op.
func (h *Collections) AddItem(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	coll, ok := h.lookup(w, r, sess.UserID)
	if !ok {
		return
	}

	contentID, err := uuid.Parse(chi.URLParam(r, "contentID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid content id")
		return
	}

	item, err := h.contents.FindByID(r.Context(), contentID, sess.UserID)
	if err != nil {
		slog.Error("content lookup failed", "error", err, "owner_id", sess.UserID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "content not found")
		return
	}

	if err := h.collections.AddContent(r.Context(), coll.ID, contentID); err != nil {
		slog.Error("collection add failed", "error", err, "owner_id", sess.UserID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

// RemoveItem takes a saved link out of a collection.
func (h *Collections) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	coll, ok := h.lookup(w, r, sess.UserID)
	if !ok {
		return
	}

	contentID, err := uuid.Parse(chi.URLParam(r, "contentID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid content id")
		return
	}

	if err := h.collections.RemoveContent(r.Context(), coll.ID, contentID); err != nil {
		slog.Error("collection remove failed", "error", err, "owner_id", sess.UserID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// lookup parses the {id} URL param and loads the owner's collection,
// writing the error response itself when that fails.
func (h *Collections) lookup(w http.ResponseWriter, r *http.Request, ownerID uuid.UUID) (*models.Collection, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid collection id")
		return nil, false
	}

	coll, err := h.collections.FindByID(r.Context(), id, ownerID)
	if err != nil {
		slog.Error("collection lookup failed", "error", err, "owner_id", ownerID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	if coll == nil {
		writeError(w, http.StatusNotFound, "collection not found")
		return nil, false
	}
	return coll, true
}
