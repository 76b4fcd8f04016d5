package category

import "errors"

// Structural validation errors. All are detected before any write; callers
// map them to transport-level status codes.
var (
	// ErrParentNotFound means the referenced parent category does not exist
	// for this owner.
	ErrParentNotFound = errors.New("category: parent not found")

	// ErrDepthExceeded means the operation would nest a category more than
	// MaxDepth levels deep.
	ErrDepthExceeded = errors.New("category: maximum tree depth exceeded")

	// ErrRootLimitExceeded means the owner already has MaxRoots root
	// categories and attempted to add or move another to root.
	ErrRootLimitExceeded = errors.New("category: root category limit exceeded")

	// ErrDuplicateCategory means a sibling with the same normalized slug
	// already exists at the target level.
	ErrDuplicateCategory = errors.New("category: duplicate sibling category")

	// ErrCategoryNotFound means the referenced category id does not belong
	// to the owner.
	ErrCategoryNotFound = errors.New("category: not found")

	// ErrNameTooShort means the category name is shorter than the minimum.
	ErrNameTooShort = errors.New("category: name too short")

	// ErrInvalidIcon means the icon name is not one of the known icons.
	ErrInvalidIcon = errors.New("category: invalid icon name")
)
