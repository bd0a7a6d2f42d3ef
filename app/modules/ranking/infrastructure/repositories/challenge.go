package rankingdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ListChallengesBetween returns a ranking's challenges whose resolution
// instant (played_at, falling back to scheduled_at) lies in [from, to),
// ordered by that instant so replay order matches match order.
func (r *RankingDBImpl) ListChallengesBetween(ctx context.Context, db bun.IDB, rankingID uuid.UUID, from, to time.Time) ([]Challenge, error) {
	var challenges []Challenge
	err := db.NewSelect().
		Model(&challenges).
		Where("c.ranking_id = ?", rankingID).
		Where("COALESCE(c.played_at, c.scheduled_at) >= ?", from).
		Where("COALESCE(c.played_at, c.scheduled_at) < ?", to).
		Order("COALESCE(c.played_at, c.scheduled_at) ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	return challenges, nil
}
