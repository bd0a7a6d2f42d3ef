package rankingdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// GetOpenRound prefers a round scoped to the ranking; when none is open it
// falls back to a global (unscoped) open round.
func (r *RankingDBImpl) GetOpenRound(ctx context.Context, db bun.IDB, rankingID uuid.UUID) (*Round, error) {
	round := new(Round)
	err := db.NewSelect().
		Model(round).
		Where("r.ranking_id = ?", rankingID).
		Where("r.status = ?", RoundStatusOpen).
		Order("reference_month DESC").
		Limit(1).
		Scan(ctx)
	if err == nil {
		return round, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get scoped open round: %w", err)
	}

	round = new(Round)
	err = db.NewSelect().
		Model(round).
		Where("r.ranking_id IS NULL").
		Where("r.status = ?", RoundStatusOpen).
		Order("reference_month DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoOpenRound
		}
		return nil, fmt.Errorf("failed to get global open round: %w", err)
	}
	return round, nil
}

func (r *RankingDBImpl) GetRoundByMonth(ctx context.Context, db bun.IDB, rankingID *uuid.UUID, month time.Time) (*Round, error) {
	round := new(Round)
	q := db.NewSelect().
		Model(round).
		Where("r.reference_month = ?", month)
	if rankingID != nil {
		q = q.Where("r.ranking_id = ?", *rankingID)
	} else {
		q = q.Where("r.ranking_id IS NULL")
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to get round by month: %w", err)
	}
	return round, nil
}

func (r *RankingDBImpl) InsertRound(ctx context.Context, db bun.IDB, round *Round) error {
	if _, err := db.NewInsert().Model(round).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert round: %w", err)
	}
	return nil
}

func (r *RankingDBImpl) UpdateRound(ctx context.Context, db bun.IDB, round *Round) error {
	round.UpdatedAt = time.Now().UTC()
	res, err := db.NewUpdate().
		Model(round).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update round: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrRoundNotFound
	}
	return nil
}

func (r *RankingDBImpl) SetRoundStatus(ctx context.Context, db bun.IDB, roundID uuid.UUID, status RoundStatus) error {
	res, err := db.NewUpdate().
		Model((*Round)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", roundID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set round status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrRoundNotFound
	}
	return nil
}
