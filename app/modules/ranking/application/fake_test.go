package rankingservice

import (
	"context"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	rankingdb "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/infrastructure/repositories"
)

// ------------------------
// Fake Repo
// ------------------------

type FakeRepo struct {
	trace []string

	GetRankingByIDFunc        func(ctx context.Context, id uuid.UUID) (*rankingdb.Ranking, error)
	GetRankingBySlugFunc      func(ctx context.Context, slug string) (*rankingdb.Ranking, error)
	GetOpenRoundFunc          func(ctx context.Context, rankingID uuid.UUID) (*rankingdb.Round, error)
	GetRoundByMonthFunc       func(ctx context.Context, rankingID *uuid.UUID, month time.Time) (*rankingdb.Round, error)
	InsertRoundFunc           func(ctx context.Context, round *rankingdb.Round) error
	UpdateRoundFunc           func(ctx context.Context, round *rankingdb.Round) error
	SetRoundStatusFunc        func(ctx context.Context, roundID uuid.UUID, status rankingdb.RoundStatus) error
	ListMembershipsFunc       func(ctx context.Context, rankingID uuid.UUID) ([]rankingdb.Membership, error)
	ApplyPositionUpdatesFunc  func(ctx context.Context, rankingID uuid.UUID, updates []rankingdb.PositionUpdate) error
	ListChallengesBetweenFunc func(ctx context.Context, rankingID uuid.UUID, from, to time.Time) ([]rankingdb.Challenge, error)
	HasSnapshotFunc           func(ctx context.Context, rankingID uuid.UUID, month time.Time) (bool, error)
	InsertSnapshotRowsFunc    func(ctx context.Context, rows []rankingdb.RankingSnapshot) error
	InsertAuditEntryFunc      func(ctx context.Context, entry *rankingdb.AuditEntry) error
}

// NewFakeRepo creates a lightweight fake repo for unit tests.
func NewFakeRepo() *FakeRepo {
	return &FakeRepo{trace: []string{}}
}

func (f *FakeRepo) record(step string) {
	f.trace = append(f.trace, step)
}

var _ rankingdb.Repository = (*FakeRepo)(nil)

func (f *FakeRepo) GetRankingByID(ctx context.Context, _ bun.IDB, id uuid.UUID) (*rankingdb.Ranking, error) {
	f.record("GetRankingByID")
	if f.GetRankingByIDFunc != nil {
		return f.GetRankingByIDFunc(ctx, id)
	}
	return &rankingdb.Ranking{ID: id, Name: "Test Ladder", Slug: "test-ladder", Active: true}, nil
}

func (f *FakeRepo) GetRankingBySlug(ctx context.Context, _ bun.IDB, slug string) (*rankingdb.Ranking, error) {
	f.record("GetRankingBySlug")
	if f.GetRankingBySlugFunc != nil {
		return f.GetRankingBySlugFunc(ctx, slug)
	}
	return nil, rankingdb.ErrRankingNotFound
}

func (f *FakeRepo) GetOpenRound(ctx context.Context, _ bun.IDB, rankingID uuid.UUID) (*rankingdb.Round, error) {
	f.record("GetOpenRound")
	if f.GetOpenRoundFunc != nil {
		return f.GetOpenRoundFunc(ctx, rankingID)
	}
	return nil, rankingdb.ErrNoOpenRound
}

func (f *FakeRepo) GetRoundByMonth(ctx context.Context, _ bun.IDB, rankingID *uuid.UUID, month time.Time) (*rankingdb.Round, error) {
	f.record("GetRoundByMonth")
	if f.GetRoundByMonthFunc != nil {
		return f.GetRoundByMonthFunc(ctx, rankingID, month)
	}
	return nil, rankingdb.ErrRoundNotFound
}

func (f *FakeRepo) InsertRound(ctx context.Context, _ bun.IDB, round *rankingdb.Round) error {
	f.record("InsertRound")
	if f.InsertRoundFunc != nil {
		return f.InsertRoundFunc(ctx, round)
	}
	return nil
}

func (f *FakeRepo) UpdateRound(ctx context.Context, _ bun.IDB, round *rankingdb.Round) error {
	f.record("UpdateRound")
	if f.UpdateRoundFunc != nil {
		return f.UpdateRoundFunc(ctx, round)
	}
	return nil
}

func (f *FakeRepo) SetRoundStatus(ctx context.Context, _ bun.IDB, roundID uuid.UUID, status rankingdb.RoundStatus) error {
	f.record("SetRoundStatus")
	if f.SetRoundStatusFunc != nil {
		return f.SetRoundStatusFunc(ctx, roundID, status)
	}
	return nil
}

func (f *FakeRepo) ListMemberships(ctx context.Context, _ bun.IDB, rankingID uuid.UUID) ([]rankingdb.Membership, error) {
	f.record("ListMemberships")
	if f.ListMembershipsFunc != nil {
		return f.ListMembershipsFunc(ctx, rankingID)
	}
	return nil, nil
}

func (f *FakeRepo) ApplyPositionUpdates(ctx context.Context, _ bun.IDB, rankingID uuid.UUID, updates []rankingdb.PositionUpdate) error {
	f.record("ApplyPositionUpdates")
	if f.ApplyPositionUpdatesFunc != nil {
		return f.ApplyPositionUpdatesFunc(ctx, rankingID, updates)
	}
	return nil
}

func (f *FakeRepo) ListChallengesBetween(ctx context.Context, _ bun.IDB, rankingID uuid.UUID, from, to time.Time) ([]rankingdb.Challenge, error) {
	f.record("ListChallengesBetween")
	if f.ListChallengesBetweenFunc != nil {
		return f.ListChallengesBetweenFunc(ctx, rankingID, from, to)
	}
	return nil, nil
}

func (f *FakeRepo) HasSnapshot(ctx context.Context, _ bun.IDB, rankingID uuid.UUID, month time.Time) (bool, error) {
	f.record("HasSnapshot")
	if f.HasSnapshotFunc != nil {
		return f.HasSnapshotFunc(ctx, rankingID, month)
	}
	return false, nil
}

func (f *FakeRepo) InsertSnapshotRows(ctx context.Context, _ bun.IDB, rows []rankingdb.RankingSnapshot) error {
	f.record("InsertSnapshotRows")
	if f.InsertSnapshotRowsFunc != nil {
		return f.InsertSnapshotRowsFunc(ctx, rows)
	}
	return nil
}

func (f *FakeRepo) InsertAuditEntry(ctx context.Context, _ bun.IDB, entry *rankingdb.AuditEntry) error {
	f.record("InsertAuditEntry")
	if f.InsertAuditEntryFunc != nil {
		return f.InsertAuditEntryFunc(ctx, entry)
	}
	return nil
}

// ------------------------
// Fake Event Bus
// ------------------------

type publishedMessage struct {
	topic   string
	payload []byte
}

type FakeEventBus struct {
	mu        sync.Mutex
	published []publishedMessage
}

func (f *FakeEventBus) Publish(_ context.Context, topic string, msg *message.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, publishedMessage{topic: topic, payload: msg.Payload})
	return nil
}

func (f *FakeEventBus) Subscribe(context.Context, string) (<-chan *message.Message, error) {
	ch := make(chan *message.Message)
	close(ch)
	return ch, nil
}

func (f *FakeEventBus) Close() error { return nil }

func (f *FakeEventBus) topics() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.published))
	for _, p := range f.published {
		out = append(out, p.topic)
	}
	return out
}
