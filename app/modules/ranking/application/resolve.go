package rankingservice

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ResolveRankingID turns a client-supplied ranking reference into an ID. A
// well-formed UUID is taken as-is, anything else is looked up as a slug.
func (s *RankingService) ResolveRankingID(ctx context.Context, ref string) (uuid.UUID, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return id, nil
	}

	var id uuid.UUID
	err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) error {
		ranking, err := s.repo.GetRankingBySlug(ctx, db, ref)
		if err != nil {
			return err
		}
		id = ranking.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
