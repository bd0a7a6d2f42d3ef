package rankingservice

import (
	"context"
	"time"

	"github.com/google/uuid"

	rankingdomain "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/domain"
)

// Service is the ranking module's operation surface.
type Service interface {
	ResolveWindows(ctx context.Context, rankingID uuid.UUID, now time.Time) (rankingdomain.Window, error)
	WindowStateFor(ctx context.Context, rankingID uuid.UUID, now time.Time) (rankingdomain.WindowState, error)
	CloseRound(ctx context.Context, input CloseRoundInput) (CloseRoundResult, error)
	RolloverRound(ctx context.Context, input RolloverInput) (CloseRoundResult, error)
	EnsureStartSnapshot(ctx context.Context, rankingID uuid.UUID, month time.Time) error
	Ladder(ctx context.Context, rankingID uuid.UUID) ([]LadderRow, error)
	ResolveRankingID(ctx context.Context, ref string) (uuid.UUID, error)
}

var _ Service = (*RankingService)(nil)
