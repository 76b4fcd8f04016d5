// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// IconName identifies the icon displayed next to a category in clients.
type IconName string

const (
	IconNone      IconName = "None"
	IconBook      IconName = "Book"
	IconBriefcase IconName = "Briefcase"
	IconCode      IconName = "Code"
	IconCoffee    IconName = "Coffee"
	IconHeart     IconName = "Heart"
	IconMusic     IconName = "Music"
	IconPlane     IconName = "Plane"
	IconShopping  IconName = "Shopping"
	IconStar      IconName = "Star"
)

// validIcons is the set of accepted icon names.
var validIcons = map[IconName]bool{
	IconNone: true, IconBook: true, IconBriefcase: true, IconCode: true,
	IconCoffee: true, IconHeart: true, IconMusic: true, IconPlane: true,
	IconShopping: true, IconStar: true,
}

// IsValid reports whether the icon name is one of the known icons.
func (i IconName) IsValid() bool {
	return validIcons[i]
}

// Category is one node of a user's category tree. A nil ParentID marks a
// root category. Slug is the normalized form of Name and is unique among
// siblings of the same owner.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	IconName  IconName   `json:"icon_name"`
	ParentID  *uuid.UUID `json:"parent_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// CategoryNode is a tree-shaped view of a Category. It is a projection
// built from the flat category list and is never persisted.
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children"`
}
