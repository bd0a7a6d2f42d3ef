package rankingdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository is the persistence surface consumed by the ranking service.
// Every method takes a bun.IDB so callers decide the transaction boundary.
type Repository interface {
	GetRankingByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Ranking, error)
	GetRankingBySlug(ctx context.Context, db bun.IDB, slug string) (*Ranking, error)

	// GetOpenRound returns the open round scoped to the ranking, falling
	// back to a global open round. ErrNoOpenRound when neither exists.
	GetOpenRound(ctx context.Context, db bun.IDB, rankingID uuid.UUID) (*Round, error)
	GetRoundByMonth(ctx context.Context, db bun.IDB, rankingID *uuid.UUID, month time.Time) (*Round, error)
	InsertRound(ctx context.Context, db bun.IDB, round *Round) error
	UpdateRound(ctx context.Context, db bun.IDB, round *Round) error
	SetRoundStatus(ctx context.Context, db bun.IDB, roundID uuid.UUID, status RoundStatus) error

	// ListMemberships returns the ladder ordered by position ascending.
	ListMemberships(ctx context.Context, db bun.IDB, rankingID uuid.UUID) ([]Membership, error)
	ApplyPositionUpdates(ctx context.Context, db bun.IDB, rankingID uuid.UUID, updates []PositionUpdate) error

	// ListChallengesBetween returns challenges of a ranking resolved in
	// [from, to), ordered by resolution time ascending.
	ListChallengesBetween(ctx context.Context, db bun.IDB, rankingID uuid.UUID, from, to time.Time) ([]Challenge, error)

	HasSnapshot(ctx context.Context, db bun.IDB, rankingID uuid.UUID, month time.Time) (bool, error)
	InsertSnapshotRows(ctx context.Context, db bun.IDB, rows []RankingSnapshot) error

	InsertAuditEntry(ctx context.Context, db bun.IDB, entry *AuditEntry) error
}
