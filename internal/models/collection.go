package models

import (
	"time"

	"github.com/google/uuid"
)

// Collection is a user-defined grouping of saved links, independent of the
// category tree. A content item may appear in any number of collections.
type Collection struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// ItemCount is populated by list queries.
	ItemCount int `json:"item_count"`
}
