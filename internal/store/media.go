package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"linkkeep/internal/models"
)

// MediaStore tracks uploaded objects (thumbnails, avatars) by S3 key.
type MediaStore struct {
	q querier
}

// NewMediaStore returns a new MediaStore.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{q: db}
}

const mediaColumns = `id, owner_id, s3_key, content_type, size_bytes, created_at`

// Create records an uploaded object.
func (s *MediaStore) Create(ctx context.Context, m *models.Media) (*models.Media, error) {
	row := s.q.QueryRowContext(ctx, `
		INSERT INTO media (owner_id, s3_key, content_type, size_bytes)
		VALUES ($1, $2, $3, $4)
		RETURNING `+mediaColumns,
		m.OwnerID, m.S3Key, m.ContentType, m.SizeBytes,
	)
	var out models.Media
	err := row.Scan(&out.ID, &out.OwnerID, &out.S3Key, &out.ContentType, &out.SizeBytes, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return &out, nil
}

// FindByID retrieves one of the owner's media rows. Returns nil if not found.
func (s *MediaStore) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*models.Media, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+mediaColumns+` FROM media WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	var m models.Media
	err := row.Scan(&m.ID, &m.OwnerID, &m.S3Key, &m.ContentType, &m.SizeBytes, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media by id: %w", err)
	}
	return &m, nil
}

// Delete removes one of the owner's media rows.
func (s *MediaStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM media WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}
