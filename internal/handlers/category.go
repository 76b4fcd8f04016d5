package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"linkkeep/internal/category"
	"linkkeep/internal/middleware"
	"linkkeep/internal/models"
	"linkkeep/internal/ranking"
)

// Categories groups the category tree HTTP handlers.
type Categories struct {
	svc    *category.Service
	ranker *ranking.Ranker
}

// NewCategories creates a new Categories handler group.
func NewCategories(svc *category.Service, ranker *ranking.Ranker) *Categories {
	return &Categories{svc: svc, ranker: ranker}
}

// Tree returns the user's categories as nested root nodes.
func (h *Categories) Tree(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	nodes, err := h.svc.Tree(r.Context(), sess.UserID)
	if err != nil {
		slog.Error("category tree failed", "error", err, "owner_id", sess.UserID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if nodes == nil {
		nodes = []*models.CategoryNode{}
	}
	writeJSON(w, http.StatusOK, nodes)
}

// Frequent returns the user's frequently saved categories, best first.
func (h *Categories) Frequent(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	ranked, err := h.ranker.Rank(r.Context(), sess.UserID)
	if err != nil {
		slog.Error("category ranking failed", "error", err, "owner_id", sess.UserID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if ranked == nil {
		ranked = []models.Category{}
	}
	writeJSON(w, http.StatusOK, ranked)
}

// Family returns the subtree of the category's root ancestor.
func (h *Categories) Family(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	nodes, err := h.svc.Family(r.Context(), sess.UserID, id)
	if err != nil {
		slog.Error("category family failed", "error", err, "owner_id", sess.UserID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if nodes == nil {
		nodes = []*models.CategoryNode{}
	}
	writeJSON(w, http.StatusOK, nodes)
}

// Create adds a category under an optional parent.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		Name     string     `json:"name"`
		ParentID *uuid.UUID `json:"parent_id"`
		IconName string     `json:"icon_name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cat, err := h.svc.Add(r.Context(), sess.UserID, req.Name, req.ParentID, models.IconName(req.IconName))
	if err != nil {
		writeCategoryError(w, err, sess.UserID)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

// Update renames, re-icons, or moves a category. The "reparent" flag must
// be set for "parent_id" to take effect, so moving to root (null parent)
// is distinguishable from not moving.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req struct {
		Name     *string    `json:"name"`
		IconName *string    `json:"icon_name"`
		ParentID *uuid.UUID `json:"parent_id"`
		Reparent bool       `json:"reparent"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	params := category.UpdateParams{
		Name:        req.Name,
		NewParentID: req.ParentID,
		Reparent:    req.Reparent,
	}
	if req.IconName != nil {
		icon := models.IconName(*req.IconName)
		params.IconName = &icon
	}

	if err := h.svc.Update(r.Context(), sess.UserID, id, params); err != nil {
		writeCategoryError(w, err, sess.UserID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Delete removes a category. Children move up to the deleted node's
// parent. Contents move the same way unless ?delete_contents=true.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	deleteContents := r.URL.Query().Get("delete_contents") == "true"

	if err := h.svc.Delete(r.Context(), sess.UserID, id, deleteContents); err != nil {
		writeCategoryError(w, err, sess.UserID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// writeCategoryError maps category service errors to HTTP statuses.
func writeCategoryError(w http.ResponseWriter, err error, ownerID uuid.UUID) {
	switch {
	case errors.Is(err, category.ErrCategoryNotFound),
		errors.Is(err, category.ErrParentNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, category.ErrDuplicateCategory):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, category.ErrDepthExceeded),
		errors.Is(err, category.ErrRootLimitExceeded),
		errors.Is(err, category.ErrNameTooShort),
		errors.Is(err, category.ErrInvalidIcon):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error("category operation failed", "error", err, "owner_id", ownerID)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
