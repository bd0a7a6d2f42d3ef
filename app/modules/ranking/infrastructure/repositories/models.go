package rankingdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Ranking represents one named challenge ladder owned by the club.
type Ranking struct {
	bun.BaseModel `bun:"table:rankings,alias:rk"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	Name        string    `bun:"name,notnull"`
	Slug        string    `bun:"slug,notnull,unique"`
	Description string    `bun:"description,nullzero"`
	Active      bool      `bun:"active,notnull,default:true"`
	CreatedAt   time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

var _ bun.BeforeInsertHook = (*Ranking)(nil)

func (r *Ranking) BeforeInsert(ctx context.Context, _ *bun.InsertQuery) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RoundStatus represents the lifecycle state of a round.
type RoundStatus string

const (
	RoundStatusOpen   RoundStatus = "open"
	RoundStatusClosed RoundStatus = "closed"
)

// Round is a monthly challenge calendar. A nil RankingID means the round is
// global and applies to every ranking without a scoped round of its own.
// ReferenceMonth is normalized to the first day of the month at UTC midnight.
type Round struct {
	bun.BaseModel `bun:"table:rounds,alias:r"`

	ID              uuid.UUID   `bun:"id,pk,type:uuid"`
	RankingID       *uuid.UUID  `bun:"ranking_id,type:uuid,nullzero"`
	ReferenceMonth  time.Time   `bun:"reference_month,notnull"`
	Status          RoundStatus `bun:"status,notnull,default:'open'"`
	RoundOpens      *time.Time  `bun:"round_opens,nullzero"`
	BlueOpens       *time.Time  `bun:"blue_opens,nullzero"`
	BlueCloses      *time.Time  `bun:"blue_closes,nullzero"`
	OpenStarts      *time.Time  `bun:"open_starts,nullzero"`
	OpenEnds        *time.Time  `bun:"open_ends,nullzero"`
	MatchesDeadline *time.Time  `bun:"matches_deadline,nullzero"`
	CreatedAt       time.Time   `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt       time.Time   `bun:",nullzero,notnull,default:current_timestamp"`
}

var _ bun.BeforeInsertHook = (*Round)(nil)

func (r *Round) BeforeInsert(ctx context.Context, _ *bun.InsertQuery) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Membership ties a player to a position on one ranking's ladder.
// Positions are 1-based, dense, and unique within a ranking.
type Membership struct {
	bun.BaseModel `bun:"table:memberships,alias:m"`

	ID                uuid.UUID `bun:"id,pk,type:uuid"`
	RankingID         uuid.UUID `bun:"ranking_id,type:uuid,notnull"`
	PlayerID          uuid.UUID `bun:"player_id,type:uuid,notnull"`
	Position          int       `bun:"position,notnull"`
	Points            int       `bun:"points,notnull,default:0"`
	BluePointEligible bool      `bun:"blue_point_eligible,notnull,default:false"`
	Locked            bool      `bun:"locked,notnull,default:false"`
	Suspended         bool      `bun:"suspended,notnull,default:false"`
	CreatedAt         time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt         time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

var _ bun.BeforeInsertHook = (*Membership)(nil)

func (m *Membership) BeforeInsert(ctx context.Context, _ *bun.InsertQuery) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ChallengeStatus is the stored status of a challenge. The effective status is
// derived from result evidence; see the domain package.
type ChallengeStatus string

const (
	ChallengeStatusScheduled ChallengeStatus = "scheduled"
	ChallengeStatusAccepted  ChallengeStatus = "accepted"
	ChallengeStatusDeclined  ChallengeStatus = "declined"
	ChallengeStatusCompleted ChallengeStatus = "completed"
	ChallengeStatusCancelled ChallengeStatus = "cancelled"
)

// ChallengeSide identifies which side of a challenge a value refers to.
type ChallengeSide string

const (
	SideNone       ChallengeSide = ""
	SideChallenger ChallengeSide = "challenger"
	SideChallenged ChallengeSide = "challenged"
)

// Challenge is a scheduled match between two memberships of one ranking.
type Challenge struct {
	bun.BaseModel `bun:"table:challenges,alias:c"`

	ID                 uuid.UUID       `bun:"id,pk,type:uuid"`
	RankingID          uuid.UUID       `bun:"ranking_id,type:uuid,notnull"`
	ChallengerID       uuid.UUID       `bun:"challenger_id,type:uuid,notnull"`
	ChallengedID       uuid.UUID       `bun:"challenged_id,type:uuid,notnull"`
	Status             ChallengeStatus `bun:"status,notnull,default:'scheduled'"`
	ScheduledAt        time.Time       `bun:"scheduled_at,notnull"`
	PlayedAt           *time.Time      `bun:"played_at,nullzero"`
	ChallengerGames    *int            `bun:"challenger_games,nullzero"`
	ChallengedGames    *int            `bun:"challenged_games,nullzero"`
	ChallengerWalkover bool            `bun:"challenger_walkover,notnull,default:false"`
	ChallengedWalkover bool            `bun:"challenged_walkover,notnull,default:false"`
	Winner             ChallengeSide   `bun:"winner,nullzero"`
	CreatedAt          time.Time       `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt          time.Time       `bun:",nullzero,notnull,default:current_timestamp"`
}

var _ bun.BeforeInsertHook = (*Challenge)(nil)

func (c *Challenge) BeforeInsert(ctx context.Context, _ *bun.InsertQuery) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ResolvedAt is the instant a challenge counts as resolved for replay
// ordering. PlayedAt wins when recorded, otherwise the scheduled time.
func (c *Challenge) ResolvedAt() time.Time {
	if c.PlayedAt != nil {
		return *c.PlayedAt
	}
	return c.ScheduledAt
}

// SnapshotType tags the kind of ladder snapshot a row belongs to.
type SnapshotType string

const SnapshotTypeStart SnapshotType = "start"

// RankingSnapshot is one append-only row of a ladder snapshot. Rows for a
// (ranking, month) pair are written once and never updated.
type RankingSnapshot struct {
	bun.BaseModel `bun:"table:ranking_snapshots,alias:rs"`

	ID        int64        `bun:"id,pk,autoincrement"`
	RankingID uuid.UUID    `bun:"ranking_id,type:uuid,notnull"`
	Month     time.Time    `bun:"month,notnull"`
	Type      SnapshotType `bun:"type,notnull,default:'start'"`
	PlayerID  uuid.UUID    `bun:"player_id,type:uuid,notnull"`
	Position  int          `bun:"position,notnull"`
	CreatedAt time.Time    `bun:",nullzero,notnull,default:current_timestamp"`
}

// AuditEntry records what a round close changed and who asked for it.
type AuditEntry struct {
	bun.BaseModel `bun:"table:ranking_audit_log,alias:al"`

	ID        int64          `bun:"id,pk,autoincrement"`
	RankingID uuid.UUID      `bun:"ranking_id,type:uuid,notnull"`
	RoundID   *uuid.UUID     `bun:"round_id,type:uuid,nullzero"`
	ActorID   uuid.UUID      `bun:"actor_id,type:uuid,notnull"`
	Action    string         `bun:"action,notnull"`
	Details   map[string]any `bun:"details,type:jsonb"`
	CreatedAt time.Time      `bun:",nullzero,notnull,default:current_timestamp"`
}

// PositionUpdate is one membership's new ladder slot produced by a close.
type PositionUpdate struct {
	PlayerID    uuid.UUID
	Position    int
	PointsDelta int
}
