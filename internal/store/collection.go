package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"linkkeep/internal/models"
)

// CollectionStore manages collections and their membership rows.
type CollectionStore struct {
	q querier
}

// NewCollectionStore returns a new CollectionStore.
func NewCollectionStore(db *sql.DB) *CollectionStore {
	return &CollectionStore{q: db}
}

const collectionColumns = `id, owner_id, name, description, created_at, updated_at`

func scanCollection(scanner interface{ Scan(...any) error }) (*models.Collection, error) {
	var c models.Collection
	err := scanner.Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns the owner's collections with item counts, newest first.
func (s *CollectionStore) List(ctx context.Context, ownerID uuid.UUID) ([]models.Collection, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT c.id, c.owner_id, c.name, c.description, c.created_at, c.updated_at,
		       COUNT(cc.content_id) AS item_count
		FROM collections c
		LEFT JOIN collection_contents cc ON cc.collection_id = c.id
		WHERE c.owner_id = $1
		GROUP BY c.id
		ORDER BY c.created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var items []models.Collection
	for rows.Next() {
		var c models.Collection
		err := rows.Scan(
			&c.ID, &c.OwnerID, &c.Name, &c.Description,
			&c.CreatedAt, &c.UpdatedAt, &c.ItemCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves one of the owner's collections. Returns nil if not found.
func (s *CollectionStore) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*models.Collection, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+collectionColumns+` FROM collections WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	c, err := scanCollection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find collection by id: %w", err)
	}
	return c, nil
}

// Create inserts a new collection and returns it.
func (s *CollectionStore) Create(ctx context.Context, c *models.Collection) (*models.Collection, error) {
	row := s.q.QueryRowContext(ctx, `
		INSERT INTO collections (owner_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING `+collectionColumns,
		c.OwnerID, c.Name, c.Description,
	)
	result, err := scanCollection(row)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return result, nil
}

// Update modifies a collection's name and description.
func (s *CollectionStore) Update(ctx context.Context, c *models.Collection) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE collections SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3 AND owner_id = $4
	`, c.Name, c.Description, c.ID, c.OwnerID)
	if err != nil {
		return fmt.Errorf("update collection: %w", err)
	}
	return nil
}

// Delete removes a collection. Membership rows cascade; the content items
// themselves are untouched.
func (s *CollectionStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM collections WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return nil
}

// AddContent adds a content item to a collection. Adding twice is a no-op.
func (s *CollectionStore) AddContent(ctx context.Context, collectionID, contentID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO collection_contents (collection_id, content_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, collectionID, contentID)
	if err != nil {
		return fmt.Errorf("add collection content: %w", err)
	}
	return nil
}

// RemoveContent removes a content item from a collection.
func (s *CollectionStore) RemoveContent(ctx context.Context, collectionID, contentID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx, `
		DELETE FROM collection_contents WHERE collection_id = $1 AND content_id = $2
	`, collectionID, contentID)
	if err != nil {
		return fmt.Errorf("remove collection content: %w", err)
	}
	return nil
}

// ListContents returns the items in a collection, most recently added first.
func (s *CollectionStore) ListContents(ctx context.Context, collectionID uuid.UUID) ([]models.Content, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT ct.id, ct.owner_id, ct.category_id, ct.link, ct.title,
		       ct.summary, ct.thumbnail_key, ct.created_at, ct.updated_at
		FROM contents ct
		JOIN collection_contents cc ON cc.content_id = ct.id
		WHERE cc.collection_id = $1
		ORDER BY cc.added_at DESC
	`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("list collection contents: %w", err)
	}
	return scanContents(rows)
}
