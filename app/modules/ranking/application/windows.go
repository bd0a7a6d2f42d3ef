package rankingservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	rankingdomain "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/domain"
	rankingdb "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/infrastructure/repositories"
)

// ResolveWindows determines the challenge window active for a ranking at a
// given instant. It prefers a round scoped to the ranking, falls back to a
// global open round, and synthesizes a whole-month window when neither
// exists.
func (s *RankingService) ResolveWindows(ctx context.Context, rankingID uuid.UUID, now time.Time) (rankingdomain.Window, error) {
	var window rankingdomain.Window

	err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) error {
		if _, err := s.repo.GetRankingByID(ctx, db, rankingID); err != nil {
			return fmt.Errorf("failed to resolve ranking: %w", err)
		}

		round, err := s.repo.GetOpenRound(ctx, db, rankingID)
		if err != nil {
			if errors.Is(err, rankingdb.ErrNoOpenRound) {
				s.logger.Debug("No open round, synthesizing fallback window",
					slog.String("ranking_id", rankingID.String()))
				window = rankingdomain.FallbackWindow(rankingID, now)
				return nil
			}
			return fmt.Errorf("failed to load open round: %w", err)
		}

		window = rankingdomain.BuildWindow(round, rankingID)
		return nil
	})
	if err != nil {
		return rankingdomain.Window{}, err
	}

	s.metrics.incWindowsResolved()
	return window, nil
}

// WindowStateFor resolves the window and maps it to the phase state at now.
func (s *RankingService) WindowStateFor(ctx context.Context, rankingID uuid.UUID, now time.Time) (rankingdomain.WindowState, error) {
	window, err := s.ResolveWindows(ctx, rankingID, now)
	if err != nil {
		return rankingdomain.WindowState{}, err
	}
	return rankingdomain.ToWindowState(window, now), nil
}
