package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"linkkeep/internal/models"
)

// CategoryStore manages categories in the database. It implements
// category.Store.
type CategoryStore struct {
	q querier
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{q: db}
}

const categoryColumns = `id, owner_id, name, slug, icon_name, parent_id, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Slug,
		&c.IconName, &c.ParentID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByID retrieves one of the owner's categories. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*models.Category, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindAllForOwner returns the owner's full flat category list in creation
// order, which keeps tree views stable between requests.
func (s *CategoryStore) FindAllForOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Category, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE owner_id = $1 ORDER BY created_at, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Save inserts a new category and returns it with generated fields set.
func (s *CategoryStore) Save(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.q.QueryRowContext(ctx, `
		INSERT INTO categories (owner_id, name, slug, icon_name, parent_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		c.OwnerID, c.Name, c.Slug, c.IconName, c.ParentID,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update modifies an existing category.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE categories SET
			name = $1, slug = $2, icon_name = $3, parent_id = $4, updated_at = NOW()
		WHERE id = $5
	`, c.Name, c.Slug, c.IconName, c.ParentID, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes a category row. Child re-parenting is the category
// service's job; the schema's ON DELETE SET NULL is only a backstop.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// CountRoots returns how many root categories the owner has.
func (s *CategoryStore) CountRoots(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var n int
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE owner_id = $1 AND parent_id IS NULL`,
		ownerID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count roots: %w", err)
	}
	return n, nil
}
