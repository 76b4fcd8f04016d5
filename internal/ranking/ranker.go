// Package ranking derives the "frequently saved" category list from each
// user's append-only save log. The algorithm is a batched approximate
// top-3: entries are consumed most-recent-first in fixed windows, and
// categories are locked in per window by save-count first, recency second.
// It deliberately is NOT an exact top-k over the whole log; the windowed
// lock-in order is part of the observable contract.
package ranking

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"linkkeep/internal/category"
	"linkkeep/internal/models"
)

const (
	// WindowSize is how many log entries are scored per ranking round.
	WindowSize = 10

	// TopCount is how many categories the ranking returns at most.
	TopCount = 3

	// countPicksPerWindow caps how many categories a single window may
	// finalize by save-count; remaining slots fill by recency.
	countPicksPerWindow = 2
)

// SaveLog is the append-only per-user log consumed by the ranker.
// ReadAll returns entries most-recent-first.
type SaveLog interface {
	Append(ctx context.Context, ownerID uuid.UUID, e models.SaveLogEntry) error
	ReadAll(ctx context.Context, ownerID uuid.UUID) ([]models.SaveLogEntry, error)
}

// CategoryReader is the slice of category persistence the ranker needs.
type CategoryReader interface {
	FindByID(ctx context.Context, id, ownerID uuid.UUID) (*models.Category, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Category, error)
}

// ContentFinder looks up existing saved links for duplicate detection.
type ContentFinder interface {
	FindByOwnerAndLink(ctx context.Context, ownerID uuid.UUID, link string) ([]models.Content, error)
}

// Ranker records save events and computes the frequent-category ranking.
type Ranker struct {
	log        SaveLog
	categories CategoryReader
	contents   ContentFinder
	now        func() time.Time
}

// NewRanker creates a Ranker.
func NewRanker(log SaveLog, categories CategoryReader, contents ContentFinder) *Ranker {
	return &Ranker{log: log, categories: categories, contents: contents, now: time.Now}
}

// RecordSave checks the new link for duplicates within cat's category
// family and appends a save event for the family's ROOT category. The
// append is best-effort: a log-write failure is logged and swallowed, since
// a missed entry only degrades the ranking, never content correctness.
func (r *Ranker) RecordSave(ctx context.Context, ownerID uuid.UUID, cat *models.Category, link string) error {
	all, err := r.categories.FindAllForOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	family := category.FindFamily(all, cat.ID)
	familyIDs := make(map[uuid.UUID]bool)
	for _, c := range category.Flatten(family) {
		familyIDs[c.ID] = true
	}
	// A category absent from the stored list (or with a broken chain) is
	// its own family.
	if len(familyIDs) == 0 {
		familyIDs[cat.ID] = true
	}

	existing, err := r.contents.FindByOwnerAndLink(ctx, ownerID, link)
	if err != nil {
		return fmt.Errorf("find by link: %w", err)
	}
	for _, c := range existing {
		if c.CategoryID != nil && familyIDs[*c.CategoryID] {
			return ErrContentDuplicate
		}
	}

	rootID := rootAncestorID(all, cat)
	entry := models.SaveLogEntry{CategoryID: rootID, SavedAt: r.now()}
	if err := r.log.Append(ctx, ownerID, entry); err != nil {
		slog.Warn("save log append failed",
			"owner_id", ownerID,
			"category_id", rootID,
			"error", err,
		)
	}
	return nil
}

// Rank returns up to TopCount categories in finalization order.
//
// The log is consumed most-recent-first in windows of WindowSize. A
// save-count map accumulates across windows; categories finalized in an
// earlier window are excluded from later ones. Per window, up to
// countPicksPerWindow categories are finalized by descending count (count
// ties keep recency order), then remaining slots fill from the recency
// ordering. Finalized ids are re-fetched as Category rows; ids whose
// category has since been deleted are skipped.
func (r *Ranker) Rank(ctx context.Context, ownerID uuid.UUID) ([]models.Category, error) {
	entries, err := r.log.ReadAll(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("read save log: %w", err)
	}

	counts := make(map[uuid.UUID]int)
	finalized := make([]uuid.UUID, 0, TopCount)
	done := make(map[uuid.UUID]bool)
	// recency holds surviving candidate ids ordered by most-recent save,
	// first occurrence wins. It persists across windows like counts.
	var recency []uuid.UUID

	for start := 0; start < len(entries) && len(finalized) < TopCount; start += WindowSize {
		end := start + WindowSize
		if end > len(entries) {
			end = len(entries)
		}

		for _, e := range entries[start:end] {
			if done[e.CategoryID] {
				continue
			}
			counts[e.CategoryID]++
			if !containsID(recency, e.CategoryID) {
				recency = append(recency, e.CategoryID)
			}
		}

		// Ordering (a): candidates by descending count; stable over the
		// recency ordering so count ties resolve to the most recent.
		byCount := make([]uuid.UUID, len(recency))
		copy(byCount, recency)
		sort.SliceStable(byCount, func(i, j int) bool {
			return counts[byCount[i]] > counts[byCount[j]]
		})

		picks := countPicksPerWindow
		if remaining := TopCount - len(finalized); picks > remaining {
			picks = remaining
		}
		for _, id := range byCount {
			if picks == 0 {
				break
			}
			finalized = append(finalized, id)
			done[id] = true
			recency = removeID(recency, id)
			picks--
		}

		// Ordering (b): fill whatever slots remain from recency.
		for len(finalized) < TopCount && len(recency) > 0 {
			id := recency[0]
			finalized = append(finalized, id)
			done[id] = true
			recency = recency[1:]
		}
	}

	result := make([]models.Category, 0, len(finalized))
	for _, id := range finalized {
		cat, err := r.categories.FindByID(ctx, id, ownerID)
		if err != nil {
			return nil, fmt.Errorf("fetch ranked category %s: %w", id, err)
		}
		if cat == nil {
			// Deleted since logging; the log keeps the entry regardless.
			continue
		}
		result = append(result, *cat)
	}
	return result, nil
}

// rootAncestorID walks cat's parent chain up to its root. Falls back to
// cat's own id when the chain cannot be resolved.
func rootAncestorID(all []models.Category, cat *models.Category) uuid.UUID {
	byID := make(map[uuid.UUID]models.Category, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}

	cur, ok := byID[cat.ID]
	if !ok {
		cur = *cat
	}
	for hops := 0; cur.ParentID != nil && hops <= len(all); hops++ {
		next, ok := byID[*cur.ParentID]
		if !ok {
			break
		}
		cur = next
	}
	return cur.ID
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
