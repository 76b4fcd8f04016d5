package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"linkkeep/internal/models"
)

// ContentStore manages saved links in the database. It implements
// category.ContentStore and ranking.ContentFinder.
type ContentStore struct {
	q querier
}

// NewContentStore returns a new ContentStore.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{q: db}
}

const contentColumns = `id, owner_id, category_id, link, title, summary, thumbnail_key, created_at, updated_at`

func scanContent(scanner interface{ Scan(...any) error }) (*models.Content, error) {
	var c models.Content
	err := scanner.Scan(
		&c.ID, &c.OwnerID, &c.CategoryID, &c.Link, &c.Title,
		&c.Summary, &c.ThumbnailKey, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanContents(rows *sql.Rows) ([]models.Content, error) {
	defer rows.Close()
	var items []models.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Create inserts a new saved link and returns it.
func (s *ContentStore) Create(ctx context.Context, c *models.Content) (*models.Content, error) {
	row := s.q.QueryRowContext(ctx, `
		INSERT INTO contents (owner_id, category_id, link, title, summary, thumbnail_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+contentColumns,
		c.OwnerID, c.CategoryID, c.Link, c.Title, c.Summary, c.ThumbnailKey,
	)
	result, err := scanContent(row)
	if err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}
	return result, nil
}

// FindByID retrieves one of the owner's saved links. Returns nil if not found.
func (s *ContentStore) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*models.Content, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+contentColumns+` FROM contents WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by id: %w", err)
	}
	return c, nil
}

// ListForOwner returns the owner's saved links, newest first. When
// categoryID is non-nil the list is restricted to that category.
func (s *ContentStore) ListForOwner(ctx context.Context, ownerID uuid.UUID, categoryID *uuid.UUID) ([]models.Content, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if categoryID != nil {
		rows, err = s.q.QueryContext(ctx,
			`SELECT `+contentColumns+` FROM contents
			 WHERE owner_id = $1 AND category_id = $2 ORDER BY created_at DESC`,
			ownerID, *categoryID,
		)
	} else {
		rows, err = s.q.QueryContext(ctx,
			`SELECT `+contentColumns+` FROM contents WHERE owner_id = $1 ORDER BY created_at DESC`,
			ownerID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("list contents: %w", err)
	}
	return scanContents(rows)
}

// FindByCategory returns every content item filed directly under the category.
func (s *ContentStore) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Content, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+contentColumns+` FROM contents WHERE category_id = $1`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("find contents by category: %w", err)
	}
	return scanContents(rows)
}

// FindByOwnerAndLink returns the owner's content items with an exact link
// match, regardless of category.
func (s *ContentStore) FindByOwnerAndLink(ctx context.Context, ownerID uuid.UUID, link string) ([]models.Content, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+contentColumns+` FROM contents WHERE owner_id = $1 AND link = $2`,
		ownerID, link,
	)
	if err != nil {
		return nil, fmt.Errorf("find contents by link: %w", err)
	}
	return scanContents(rows)
}

// Reparent moves the given content items to a new category (nil =
// uncategorized).
func (s *ContentStore) Reparent(ctx context.Context, contentIDs []uuid.UUID, newCategoryID *uuid.UUID) error {
	if len(contentIDs) == 0 {
		return nil
	}
	_, err := s.q.ExecContext(ctx, `
		UPDATE contents SET category_id = $1, updated_at = NOW()
		WHERE id = ANY($2)
	`, newCategoryID, contentIDs)
	if err != nil {
		return fmt.Errorf("reparent contents: %w", err)
	}
	return nil
}

// DeleteByCategory removes every content item filed directly under the
// category.
func (s *ContentStore) DeleteByCategory(ctx context.Context, categoryID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM contents WHERE category_id = $1`, categoryID)
	if err != nil {
		return fmt.Errorf("delete contents by category: %w", err)
	}
	return nil
}

// Delete removes one of the owner's saved links.
func (s *ContentStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM contents WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	return nil
}

// SetThumbnail stores the object-storage key of a link's thumbnail.
func (s *ContentStore) SetThumbnail(ctx context.Context, id, ownerID uuid.UUID, key string) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE contents SET thumbnail_key = $1, updated_at = NOW()
		WHERE id = $2 AND owner_id = $3
	`, key, id, ownerID)
	if err != nil {
		return fmt.Errorf("set thumbnail: %w", err)
	}
	return nil
}

// SetSummary stores an AI-generated summary on a saved link.
func (s *ContentStore) SetSummary(ctx context.Context, id, ownerID uuid.UUID, summary string) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE contents SET summary = $1, updated_at = NOW()
		WHERE id = $2 AND owner_id = $3
	`, summary, id, ownerID)
	if err != nil {
		return fmt.Errorf("set summary: %w", err)
	}
	return nil
}
