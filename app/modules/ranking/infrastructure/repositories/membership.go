package rankingdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func (r *RankingDBImpl) ListMemberships(ctx context.Context, db bun.IDB, rankingID uuid.UUID) ([]Membership, error) {
	var memberships []Membership
	err := db.NewSelect().
		Model(&memberships).
		Where("m.ranking_id = ?", rankingID).
		Order("position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return memberships, nil
}

// ApplyPositionUpdates writes a full new ladder ordering in one statement per
// member. Positions are shifted through a negative range first so the unique
// (ranking_id, position) index never sees a duplicate mid-update.
func (r *RankingDBImpl) ApplyPositionUpdates(ctx context.Context, db bun.IDB, rankingID uuid.UUID, updates []PositionUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	now := time.Now().UTC()

	// Phase 1: park every affected row out of the live position range.
	for _, u := range updates {
		_, err := db.NewUpdate().
			Model((*Membership)(nil)).
			Set("position = ?", -u.Position).
			Set("updated_at = ?", now).
			Where("ranking_id = ?", rankingID).
			Where("player_id = ?", u.PlayerID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to park membership position: %w", err)
		}
	}

	// Phase 2: land each row on its final slot and apply point deltas.
	for _, u := range updates {
		res, err := db.NewUpdate().
			Model((*Membership)(nil)).
			Set("position = ?", u.Position).
			Set("points = points + ?", u.PointsDelta).
			Set("updated_at = ?", now).
			Where("ranking_id = ?", rankingID).
			Where("player_id = ?", u.PlayerID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to apply membership position: %w", err)
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return fmt.Errorf("%w: player %s has no membership", ErrPositionConflict, u.PlayerID)
		}
	}

	return nil
}
