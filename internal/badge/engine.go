package badge

import (
	"context"
	"time"

	"github.com/HuonT/Writers-Tome/internal/course"
)

// Store is the earned-badge persistence boundary. The earned list is
// append-only and keyed by badge id; AppendIfAbsent must tolerate redundant
// calls for the same badge without producing duplicates.
type Store interface {
	AppendIfAbsent(ctx context.Context, userID string, b Badge) error
	LoadEarned(ctx context.Context, userID string) ([]Badge, error)
}

// CalculateBadgeProgress evaluates which of a module's badges the given
// completion state earns, and returns the module's full catalog slice with
// Earned/EarnedAt set on the newly earned entries. It does not consult prior
// ownership; idempotence lives entirely in the persistence step.
//
// Worldbuilding maps the Nth completed exercise to the badge at catalog
// position N-1 — by position, not exercise identity. Reordering the
// worldbuilding exercise catalog changes which badge a given exercise earns;
// this mirrors the award rules the curriculum was written against and is a
// deliberate constraint, not an accident.
//
// For every other module: a non-quiz call earns the index-0 exercise badge,
// and a quiz call earns the index-1 badge only when the final question has
// been answered (completedItems == totalItems).
func CalculateBadgeProgress(moduleID string, completedItems, totalItems int, isQuiz bool) []Badge {
	moduleBadges := ModuleBadges(moduleID)
	now := time.Now().UTC()

	if moduleID == course.ModuleWorldbuilding {
		idx := completedItems - 1
		if idx >= 0 && idx < len(moduleBadges) {
			moduleBadges[idx].Earned = true
			moduleBadges[idx].EarnedAt = now
		}
		return moduleBadges
	}

	if isQuiz {
		if completedItems == totalItems && len(moduleBadges) > 1 {
			moduleBadges[1].Earned = true
			moduleBadges[1].EarnedAt = now
		}
	} else if len(moduleBadges) > 0 {
		moduleBadges[0].Earned = true
		moduleBadges[0].EarnedAt = now
	}
	return moduleBadges
}

// SaveUserBadge persists an earned badge to the user's append-only earned
// list. Unearned badges are a silent no-op. The existing-id check plus the
// store's own conflict guard make redundant calls harmless: the engine may
// recompute the same newly earned badge across several rapid saves.
func SaveUserBadge(ctx context.Context, store Store, userID string, b Badge) error {
	if !b.Earned {
		return nil
	}
	earned, err := store.LoadEarned(ctx, userID)
	if err != nil {
		return err
	}
	for _, e := range earned {
		if e.ID == b.ID {
			return nil
		}
	}
	if b.EarnedAt.IsZero() {
		b.EarnedAt = time.Now().UTC()
	}
	return store.AppendIfAbsent(ctx, userID, b)
}
