package rankingdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RankingDBImpl implements Repository on top of bun. It carries no state of
// its own; the transaction handle is supplied per call.
type RankingDBImpl struct{}

var _ Repository = (*RankingDBImpl)(nil)

func (r *RankingDBImpl) GetRankingByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Ranking, error) {
	ranking := new(Ranking)
	err := db.NewSelect().
		Model(ranking).
		Where("rk.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRankingNotFound
		}
		return nil, fmt.Errorf("failed to get ranking by id: %w", err)
	}
	return ranking, nil
}

func (r *RankingDBImpl) GetRankingBySlug(ctx context.Context, db bun.IDB, slug string) (*Ranking, error) {
	ranking := new(Ranking)
	err := db.NewSelect().
		Model(ranking).
		Where("rk.slug = ?", slug).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRankingNotFound
		}
		return nil, fmt.Errorf("failed to get ranking by slug: %w", err)
	}
	return ranking, nil
}
