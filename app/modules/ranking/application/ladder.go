package rankingservice

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LadderRow is one membership row as served to clients.
type LadderRow struct {
	Position          int       `json:"position"`
	PlayerID          uuid.UUID `json:"player_id"`
	Points            int       `json:"points"`
	BluePointEligible bool      `json:"blue_point_eligible"`
	Locked            bool      `json:"locked"`
	Suspended         bool      `json:"suspended"`
}

// Ladder returns the current ladder ordered by position.
func (s *RankingService) Ladder(ctx context.Context, rankingID uuid.UUID) ([]LadderRow, error) {
	var rows []LadderRow

	err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) error {
		if _, err := s.repo.GetRankingByID(ctx, db, rankingID); err != nil {
			return fmt.Errorf("failed to resolve ranking: %w", err)
		}
		memberships, err := s.repo.ListMemberships(ctx, db, rankingID)
		if err != nil {
			return err
		}
		rows = make([]LadderRow, 0, len(memberships))
		for _, m := range memberships {
			rows = append(rows, LadderRow{
				Position:          m.Position,
				PlayerID:          m.PlayerID,
				Points:            m.Points,
				BluePointEligible: m.BluePointEligible,
				Locked:            m.Locked,
				Suspended:         m.Suspended,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
