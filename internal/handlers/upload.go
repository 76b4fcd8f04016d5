package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"linkkeep/internal/middleware"
	"linkkeep/internal/models"
	"linkkeep/internal/storage"
	"linkkeep/internal/store"
)

// maxUploadBytes caps thumbnail uploads at 5 MiB.
const maxUploadBytes = 5 << 20

// allowedImageTypes maps accepted thumbnail content types to extensions.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Uploads handles thumbnail uploads to object storage.
type Uploads struct {
	objects  *storage.Client
	media    *store.MediaStore
	contents *store.ContentStore
}

// NewUploads creates a new Uploads handler group.
func NewUploads(objects *storage.Client, media *store.MediaStore, contents *store.ContentStore) *Uploads {
	return &Uploads{objects: objects, media: media, contents: contents}
}

// Thumbnail accepts a multipart image upload for a saved link, stores the
// object under thumbnails/{owner}/{uuid}{ext}, records a media row and
// sets the content's thumbnail key.
func (h *Uploads) Thumbnail(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	if h.objects == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	contentID, err := uuid.Parse(chi.URLParam(r, "id"))
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

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large (max 5 MiB)")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		writeError(w, http.StatusUnsupportedMediaType, "only jpeg, png and webp images are accepted")
		return
	}

	key := path.Join("thumbnails", sess.UserID.String(), uuid.NewString()+ext)
	if err := h.objects.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		slog.Error("thumbnail upload failed", "error", err, "key", key)
		writeError(w, http.StatusBadGateway, "upload failed")
		return
	}

	if _, err := h.media.Create(r.Context(), &models.Media{
		OwnerID:     sess.UserID,
		S3Key:       key,
		ContentType: contentType,
		SizeBytes:   header.Size,
	}); err != nil {
		slog.Error("media record failed", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.setThumbnail(r, contentID, sess.UserID, key); err != nil {
		slog.Error("set thumbnail failed", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// Replace a previous thumbnail object, if any.
	if item.ThumbnailKey != nil && *item.ThumbnailKey != key {
		if err := h.objects.Delete(r.Context(), *item.ThumbnailKey); err != nil {
			slog.Warn("old thumbnail delete failed", "key", *item.ThumbnailKey, "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"key": key,
		"url": h.objects.FileURL(key),
	})
}

// setThumbnail stores the thumbnail key on the content row.
func (h *Uploads) setThumbnail(r *http.Request, contentID, ownerID uuid.UUID, key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("empty thumbnail key")
	}
	return h.contents.SetThumbnail(r.Context(), contentID, ownerID, key)
}
