package rankinghandlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	rankingservice "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/application"
	rankingdomain "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/domain"
	rankingdb "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/infrastructure/repositories"
)

type FakeService struct {
	ResolveWindowsFunc      func(ctx context.Context, rankingID uuid.UUID, now time.Time) (rankingdomain.Window, error)
	WindowStateForFunc      func(ctx context.Context, rankingID uuid.UUID, now time.Time) (rankingdomain.WindowState, error)
	CloseRoundFunc          func(ctx context.Context, input rankingservice.CloseRoundInput) (rankingservice.CloseRoundResult, error)
	RolloverRoundFunc       func(ctx context.Context, input rankingservice.RolloverInput) (rankingservice.CloseRoundResult, error)
	EnsureStartSnapshotFunc func(ctx context.Context, rankingID uuid.UUID, month time.Time) error
	LadderFunc              func(ctx context.Context, rankingID uuid.UUID) ([]rankingservice.LadderRow, error)
	ResolveRankingIDFunc    func(ctx context.Context, ref string) (uuid.UUID, error)
}

var _ rankingservice.Service = (*FakeService)(nil)

func (f *FakeService) ResolveWindows(ctx context.Context, rankingID uuid.UUID, now time.Time) (rankingdomain.Window, error) {
	if f.ResolveWindowsFunc != nil {
		return f.ResolveWindowsFunc(ctx, rankingID, now)
	}
	return rankingdomain.FallbackWindow(rankingID, now), nil
}

func (f *FakeService) WindowStateFor(ctx context.Context, rankingID uuid.UUID, now time.Time) (rankingdomain.WindowState, error) {
	if f.WindowStateForFunc != nil {
		return f.WindowStateForFunc(ctx, rankingID, now)
	}
	return rankingdomain.WindowState{Phase: rankingdomain.PhaseOpen, Allowed: true}, nil
}

func (f *FakeService) CloseRound(ctx context.Context, input rankingservice.CloseRoundInput) (rankingservice.CloseRoundResult, error) {
	if f.CloseRoundFunc != nil {
		return f.CloseRoundFunc(ctx, input)
	}
	return rankingservice.CloseRoundResult{}, nil
}

func (f *FakeService) RolloverRound(ctx context.Context, input rankingservice.RolloverInput) (rankingservice.CloseRoundResult, error) {
	if f.RolloverRoundFunc != nil {
		return f.RolloverRoundFunc(ctx, input)
	}
	return rankingservice.CloseRoundResult{}, nil
}

func (f *FakeService) EnsureStartSnapshot(ctx context.Context, rankingID uuid.UUID, month time.Time) error {
	if f.EnsureStartSnapshotFunc != nil {
		return f.EnsureStartSnapshotFunc(ctx, rankingID, month)
	}
	return nil
}

func (f *FakeService) Ladder(ctx context.Context, rankingID uuid.UUID) ([]rankingservice.LadderRow, error) {
	if f.LadderFunc != nil {
		return f.LadderFunc(ctx, rankingID)
	}
	return nil, nil
}

func (f *FakeService) ResolveRankingID(ctx context.Context, ref string) (uuid.UUID, error) {
	if f.ResolveRankingIDFunc != nil {
		return f.ResolveRankingIDFunc(ctx, ref)
	}
	if id, err := uuid.Parse(ref); err == nil {
		return id, nil
	}
	return uuid.Nil, rankingdb.ErrRankingNotFound
}
