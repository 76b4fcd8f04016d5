package category

import (
	"github.com/google/uuid"

	"linkkeep/internal/models"
)

// BuildTree nests a flat category list into its root nodes. The input is
// not mutated; node values are copied into the result. Children appear in
// input order, as do roots. Nodes whose parent id does not resolve within
// the list are dropped rather than promoted to roots.
func BuildTree(categories []models.Category) []*models.CategoryNode {
	nodes := make(map[uuid.UUID]*models.CategoryNode, len(categories))
	for _, c := range categories {
		nodes[c.ID] = &models.CategoryNode{Category: c}
	}

	var roots []*models.CategoryNode
	for _, c := range categories {
		node := nodes[c.ID]
		if c.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*c.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		}
	}
	return roots
}

// Flatten walks a tree depth-first and collects every node's Category.
func Flatten(nodes []*models.CategoryNode) []models.Category {
	var result []models.Category
	var walk func(ns []*models.CategoryNode)
	walk = func(ns []*models.CategoryNode) {
		for _, n := range ns {
			result = append(result, n.Category)
			walk(n.Children)
		}
	}
	walk(nodes)
	return result
}

// FindFamily returns the subtree of the root ancestor of targetID as a
// single-element slice, or an empty slice when targetID is not present in
// the list or its ancestor chain is broken.
func FindFamily(categories []models.Category, targetID uuid.UUID) []*models.CategoryNode {
	byID := make(map[uuid.UUID]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	cur, ok := byID[targetID]
	if !ok {
		return nil
	}

	// Walk parent links up to the root. The walk is bounded by the list
	// length so a corrupted cycle cannot spin forever.
	for hops := 0; cur.ParentID != nil; hops++ {
		if hops > len(categories) {
			return nil
		}
		parent, ok := byID[*cur.ParentID]
		if !ok {
			return nil
		}
		cur = parent
	}

	for _, root := range BuildTree(categories) {
		if root.ID == cur.ID {
			return []*models.CategoryNode{root}
		}
	}
	return nil
}
