package models

import (
	"time"

	"github.com/google/uuid"
)

// SaveLogEntry records one "link was saved" event. CategoryID is always the
// top-level root ancestor of the category the link was filed under, never
// the leaf itself. Entries are append-only and scoped per owner.
type SaveLogEntry struct {
	CategoryID uuid.UUID `json:"category_id"`
	SavedAt    time.Time `json:"saved_at"`
}
