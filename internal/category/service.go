// Package category maintains each user's category tree: bounded-depth
// hierarchy, per-level slug uniqueness, a cap on root categories, and
// delete-with-reattachment. It owns no SQL; persistence is supplied through
// the Store, ContentStore and TxRunner interfaces.
package category

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"linkkeep/internal/models"
	"linkkeep/internal/slug"
)

// Tree limits. A root category is depth 1; its grandchildren (depth 3) may
// not have children of their own.
const (
	MaxDepth   = 3
	MaxRoots   = 10
	MinNameLen = 2
)

// Store is the category persistence interface consumed by the service.
type Store interface {
	FindByID(ctx context.Context, id, ownerID uuid.UUID) (*models.Category, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Category, error)
	Save(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountRoots(ctx context.Context, ownerID uuid.UUID) (int, error)
}

// ContentStore is the slice of content persistence the category service
// needs for delete cascades.
type ContentStore interface {
	FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Content, error)
	Reparent(ctx context.Context, contentIDs []uuid.UUID, newCategoryID *uuid.UUID) error
	DeleteByCategory(ctx context.Context, categoryID uuid.UUID) error
}

// TxRunner executes fn atomically: the stores passed to fn share one
// transaction, and any error rolls back every step.
type TxRunner interface {
	InTx(ctx context.Context, fn func(cats Store, contents ContentStore) error) error
}

// Service enforces the category tree invariants.
type Service struct {
	store    Store
	contents ContentStore
	tx       TxRunner
}

// NewService creates a category service.
func NewService(store Store, contents ContentStore, tx TxRunner) *Service {
	return &Service{store: store, contents: contents, tx: tx}
}

// GetOrCreate returns the owner's category matching (slug, parent), creating
// it when absent. The lookup is idempotent: an existing match is returned
// unchanged.
func (s *Service) GetOrCreate(ctx context.Context, ownerID uuid.UUID, name string, parentID *uuid.UUID) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	sl := slug.Generate(name)

	all, err := s.store.FindAllForOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	if parentID != nil {
		if err := validateParentDepth(all, *parentID); err != nil {
			return nil, err
		}
	}

	for i := range all {
		if all[i].Slug == sl && idPtrEqual(all[i].ParentID, parentID) {
			c := all[i]
			return &c, nil
		}
	}

	return s.store.Save(ctx, &models.Category{
		OwnerID:  ownerID,
		Name:     name,
		Slug:     sl,
		IconName: models.IconNone,
		ParentID: parentID,
	})
}

// Add creates a new category, rejecting duplicates at the target level and
// enforcing the depth and root-count limits.
func (s *Service) Add(ctx context.Context, ownerID uuid.UUID, name string, parentID *uuid.UUID, icon models.IconName) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if icon == "" {
		icon = models.IconNone
	}
	if !icon.IsValid() {
		return nil, ErrInvalidIcon
	}
	sl := slug.Generate(name)

	all, err := s.store.FindAllForOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	if parentID != nil {
		if err := validateParentDepth(all, *parentID); err != nil {
			return nil, err
		}
	} else {
		roots, err := s.store.CountRoots(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("count roots: %w", err)
		}
		if roots >= MaxRoots {
			return nil, ErrRootLimitExceeded
		}
	}

	for i := range all {
		if all[i].Slug == sl && idPtrEqual(all[i].ParentID, parentID) {
			return nil, ErrDuplicateCategory
		}
	}

	return s.store.Save(ctx, &models.Category{
		OwnerID:  ownerID,
		Name:     name,
		Slug:     sl,
		IconName: icon,
		ParentID: parentID,
	})
}

// UpdateParams describes a partial category update. Nil fields are left
// untouched. Reparent must be set for NewParentID to take effect, so that
// "move to root" (nil parent) is distinguishable from "don't move".
type UpdateParams struct {
	Name        *string
	IconName    *models.IconName
	NewParentID *uuid.UUID
	Reparent    bool
}

// Update renames, re-icons, or re-parents a category. All validation runs
// before the single transactional write.
func (s *Service) Update(ctx context.Context, ownerID, categoryID uuid.UUID, p UpdateParams) error {
	all, err := s.store.FindAllForOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	cat := findByID(all, categoryID)
	if cat == nil {
		return ErrCategoryNotFound
	}

	targetParent := cat.ParentID
	if p.Reparent {
		targetParent = p.NewParentID
		if p.NewParentID != nil {
			// Moving under itself or one of its descendants would detach
			// the subtree into a cycle of unbounded depth.
			if *p.NewParentID == categoryID || chainContains(all, *p.NewParentID, categoryID) {
				return ErrDepthExceeded
			}
			if err := validateParentDepth(all, *p.NewParentID); err != nil {
				return err
			}
			// The moved node carries its subtree with it.
			if depthOfParent(all, *p.NewParentID)+subtreeHeight(all, categoryID) > MaxDepth {
				return ErrDepthExceeded
			}
		} else if cat.ParentID != nil {
			roots, err := s.store.CountRoots(ctx, ownerID)
			if err != nil {
				return fmt.Errorf("count roots: %w", err)
			}
			if roots >= MaxRoots {
				return ErrRootLimitExceeded
			}
		}
	}

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if err := validateName(name); err != nil {
			return err
		}
		cat.Name = name
		cat.Slug = slug.Generate(name)
	}
	if p.IconName != nil {
		if !p.IconName.IsValid() {
			return ErrInvalidIcon
		}
		cat.IconName = *p.IconName
	}

	// Sibling uniqueness must hold at the target level whether the slug
	// changed, the parent changed, or both.
	for i := range all {
		if all[i].ID != categoryID && all[i].Slug == cat.Slug && idPtrEqual(all[i].ParentID, targetParent) {
			return ErrDuplicateCategory
		}
	}
	cat.ParentID = targetParent

	return s.tx.InTx(ctx, func(cats Store, _ ContentStore) error {
		return cats.Update(ctx, cat)
	})
}

// Delete removes a category, re-parenting its direct children to the
// deleted node's parent (or to root). Content filed under the category is
// deleted or re-parented the same way, per deleteContents. The cascade runs
// in one transaction.
func (s *Service) Delete(ctx context.Context, ownerID, categoryID uuid.UUID, deleteContents bool) error {
	all, err := s.store.FindAllForOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	cat := findByID(all, categoryID)
	if cat == nil {
		return ErrCategoryNotFound
	}

	var children []models.Category
	for i := range all {
		if all[i].ParentID != nil && *all[i].ParentID == categoryID {
			children = append(children, all[i])
		}
	}

	return s.tx.InTx(ctx, func(cats Store, contents ContentStore) error {
		for i := range children {
			children[i].ParentID = cat.ParentID
			if err := cats.Update(ctx, &children[i]); err != nil {
				return fmt.Errorf("reparent child %s: %w", children[i].ID, err)
			}
		}

		if deleteContents {
			if err := contents.DeleteByCategory(ctx, categoryID); err != nil {
				return fmt.Errorf("delete contents: %w", err)
			}
		} else {
			items, err := contents.FindByCategory(ctx, categoryID)
			if err != nil {
				return fmt.Errorf("find contents: %w", err)
			}
			if len(items) > 0 {
				ids := make([]uuid.UUID, len(items))
				for i, it := range items {
					ids[i] = it.ID
				}
				if err := contents.Reparent(ctx, ids, cat.ParentID); err != nil {
					return fmt.Errorf("reparent contents: %w", err)
				}
			}
		}

		return cats.Delete(ctx, categoryID)
	})
}

// Get returns one of the owner's categories, or nil when absent.
func (s *Service) Get(ctx context.Context, ownerID, categoryID uuid.UUID) (*models.Category, error) {
	cat, err := s.store.FindByID(ctx, categoryID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return cat, nil
}

// Tree returns the owner's categories as nested root nodes.
func (s *Service) Tree(ctx context.Context, ownerID uuid.UUID) ([]*models.CategoryNode, error) {
	all, err := s.store.FindAllForOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	return BuildTree(all), nil
}

// Family returns the subtree of categoryID's root ancestor.
func (s *Service) Family(ctx context.Context, ownerID, categoryID uuid.UUID) ([]*models.CategoryNode, error) {
	all, err := s.store.FindAllForOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	return FindFamily(all, categoryID), nil
}

// validateName rejects names shorter than MinNameLen runes.
func validateName(name string) error {
	if utf8.RuneCountInString(name) < MinNameLen {
		return ErrNameTooShort
	}
	return nil
}

// validateParentDepth confirms that a child of parentID stays within
// MaxDepth. The ancestor walk fails closed: a missing link or a chain at
// the bound is rejected as DepthExceeded.
func validateParentDepth(all []models.Category, parentID uuid.UUID) error {
	byID := indexByID(all)
	cur, ok := byID[parentID]
	if !ok {
		return ErrParentNotFound
	}

	depth := 1
	for cur.ParentID != nil {
		depth++
		if depth >= MaxDepth {
			return ErrDepthExceeded
		}
		next, ok := byID[*cur.ParentID]
		if !ok {
			return ErrDepthExceeded
		}
		cur = next
	}
	if depth+1 > MaxDepth {
		return ErrDepthExceeded
	}
	return nil
}

// depthOfParent returns the depth of parentID (1 = root). Callers must have
// validated the chain first.
func depthOfParent(all []models.Category, parentID uuid.UUID) int {
	byID := indexByID(all)
	depth := 1
	cur, ok := byID[parentID]
	if !ok {
		return MaxDepth // fail closed
	}
	for cur.ParentID != nil {
		next, ok := byID[*cur.ParentID]
		if !ok {
			return MaxDepth
		}
		cur = next
		depth++
	}
	return depth
}

// subtreeHeight returns the height of the subtree rooted at id (1 = leaf).
func subtreeHeight(all []models.Category, id uuid.UUID) int {
	height := 1
	for i := range all {
		if all[i].ParentID != nil && *all[i].ParentID == id {
			if h := 1 + subtreeHeight(all, all[i].ID); h > height {
				height = h
			}
		}
	}
	return height
}

// chainContains reports whether ancestorID appears in the parent chain of
// startID (exclusive of startID itself is not required; the walk starts at
// startID's record and follows parent links).
func chainContains(all []models.Category, startID, ancestorID uuid.UUID) bool {
	byID := indexByID(all)
	cur, ok := byID[startID]
	if !ok {
		return false
	}
	for hops := 0; cur.ParentID != nil && hops <= len(all); hops++ {
		if *cur.ParentID == ancestorID {
			return true
		}
		next, ok := byID[*cur.ParentID]
		if !ok {
			return false
		}
		cur = next
	}
	return false
}

func findByID(all []models.Category, id uuid.UUID) *models.Category {
	for i := range all {
		if all[i].ID == id {
			c := all[i]
			return &c
		}
	}
	return nil
}

func indexByID(all []models.Category) map[uuid.UUID]models.Category {
	byID := make(map[uuid.UUID]models.Category, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}
	return byID
}

// idPtrEqual compares two *uuid.UUID for equality (both nil or same value).
func idPtrEqual(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
