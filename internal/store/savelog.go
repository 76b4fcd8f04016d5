// savelog.go persists the per-user save log: one row per "link was saved"
// event, append-only, read back most-recent-first for ranking. Rows are
// never updated or deleted individually; they go away only when the owning
// user is deleted.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"linkkeep/internal/models"
)

// SaveLogStore handles save-log operations. It implements ranking.SaveLog.
type SaveLogStore struct {
	q querier
}

// NewSaveLogStore creates a new SaveLogStore.
func NewSaveLogStore(db *sql.DB) *SaveLogStore {
	return &SaveLogStore{q: db}
}

// Append writes one save event for the owner.
func (s *SaveLogStore) Append(ctx context.Context, ownerID uuid.UUID, e models.SaveLogEntry) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO save_log (owner_id, category_id, saved_at)
		VALUES ($1, $2, $3)
	`, ownerID, e.CategoryID, e.SavedAt)
	if err != nil {
		return fmt.Errorf("append save log: %w", err)
	}
	return nil
}

// ReadAll returns the owner's full save log, most-recent-first. The serial
// id breaks ties between entries written in the same instant.
func (s *SaveLogStore) ReadAll(ctx context.Context, ownerID uuid.UUID) ([]models.SaveLogEntry, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT category_id, saved_at FROM save_log
		WHERE owner_id = $1
		ORDER BY saved_at DESC, id DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("read save log: %w", err)
	}
	defer rows.Close()

	var entries []models.SaveLogEntry
	for rows.Next() {
		var e models.SaveLogEntry
		if err := rows.Scan(&e.CategoryID, &e.SavedAt); err != nil {
			return nil, fmt.Errorf("scan save log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountForOwner returns the total number of logged saves, reported on the
// account endpoint.
func (s *SaveLogStore) CountForOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var n int
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM save_log WHERE owner_id = $1`, ownerID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count save log: %w", err)
	}
	return n, nil
}
