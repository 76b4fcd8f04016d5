package models

import (
	"time"

	"github.com/google/uuid"
)

// Content is a saved link. CategoryID is nil when the item is uncategorized
// (for example after its category was deleted without cascading).
type Content struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	CategoryID   *uuid.UUID `json:"category_id"`
	Link         string     `json:"link"`
	Title        string     `json:"title"`
	Summary      *string    `json:"summary,omitempty"`
	ThumbnailKey *string    `json:"thumbnail_key,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
