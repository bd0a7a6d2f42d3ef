package rankingservice

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	rankingdb "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/infrastructure/repositories"
)

// ensureStartSnapshot freezes the ladder as it stood at the start of the month
// the first time that month is touched. The snapshot insert ignores conflicts,
// so concurrent close attempts cannot double-write.
func (s *RankingService) ensureStartSnapshot(ctx context.Context, db bun.IDB, rankingID uuid.UUID, month time.Time, memberships []rankingdb.Membership) error {
	exists, err := s.repo.HasSnapshot(ctx, db, rankingID, month)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	rows := make([]rankingdb.RankingSnapshot, 0, len(memberships))
	for _, m := range memberships {
		rows = append(rows, rankingdb.RankingSnapshot{
			RankingID: rankingID,
			Month:     month,
			Type:      rankingdb.SnapshotTypeStart,
			PlayerID:  m.PlayerID,
			Position:  m.Position,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	if err := s.repo.InsertSnapshotRows(ctx, db, rows); err != nil {
		return err
	}
	s.logger.Info("Captured start-of-month ladder snapshot",
		slog.String("ranking_id", rankingID.String()),
		slog.Time("month", month),
		slog.Int("players", len(rows)),
	)
	return nil
}

// EnsureStartSnapshot captures the start-of-month snapshot outside a close,
// for schedulers that want it taken early in the month.
func (s *RankingService) EnsureStartSnapshot(ctx context.Context, rankingID uuid.UUID, month time.Time) error {
	return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) error {
		memberships, err := s.repo.ListMemberships(ctx, db, rankingID)
		if err != nil {
			return err
		}
		return s.ensureStartSnapshot(ctx, db, rankingID, month, memberships)
	})
}
