package rankingdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func (r *RankingDBImpl) HasSnapshot(ctx context.Context, db bun.IDB, rankingID uuid.UUID, month time.Time) (bool, error) {
	exists, err := db.NewSelect().
		Model((*RankingSnapshot)(nil)).
		Where("rs.ranking_id = ?", rankingID).
		Where("rs.month = ?", month).
		Where("rs.type = ?", SnapshotTypeStart).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check snapshot existence: %w", err)
	}
	return exists, nil
}

// InsertSnapshotRows bulk-inserts snapshot rows, skipping duplicates so the
// ensure operation stays idempotent.
func (r *RankingDBImpl) InsertSnapshotRows(ctx context.Context, db bun.IDB, rows []RankingSnapshot) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (ranking_id, month, type, player_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot rows: %w", err)
	}
	return nil
}

func (r *RankingDBImpl) InsertAuditEntry(ctx context.Context, db bun.IDB, entry *AuditEntry) error {
	if _, err := db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}
