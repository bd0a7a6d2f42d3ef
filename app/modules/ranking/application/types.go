package rankingservice

import (
	"time"

	"github.com/google/uuid"

	rankingdomain "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/domain"
)

// Violation records one challenge outcome that a configured limit rejected.
// Violations are collected, never raised, so a caller sees every problem of a
// close attempt in one pass.
type Violation struct {
	ChallengeID uuid.UUID `json:"challenge_id"`
	Reason      string    `json:"reason"`
}

// LogEntry is one line of the close audit trail.
type LogEntry struct {
	At      time.Time `json:"at"`
	Message string    `json:"message"`
}

// CloseRoundInput drives one close attempt.
type CloseRoundInput struct {
	RankingID      uuid.UUID
	ReferenceMonth time.Time
	ActorID        uuid.UUID

	// PersistMemberships writes the computed ladder back. It is ignored
	// when violations are found.
	PersistMemberships bool
	// CloseStatus marks the month's round closed after a clean replay.
	CloseStatus bool

	// ManualOrder, when set, replaces the simulator output with an
	// admin-supplied final ladder. Escape hatch for irregular months.
	ManualOrder map[int]uuid.UUID

	// ReplayThrough bounds the challenge replay (exclusive). Zero means
	// the end of the reference month.
	ReplayThrough time.Time

	// Config overrides the ranking's rule knobs; nil uses the defaults.
	Config *rankingdomain.RankingConfig
}

// CloseRoundResult reports what a close attempt computed.
type CloseRoundResult struct {
	Violations     []Violation                          `json:"violations"`
	ManualOverride bool                                 `json:"manual_override"`
	Log            []LogEntry                           `json:"log"`
	FinalLadder    map[int]uuid.UUID                    `json:"final_ladder,omitempty"`
	Movements      map[uuid.UUID]rankingdomain.Movement `json:"movements,omitempty"`
	Persisted      bool                                 `json:"persisted"`
}

// OK reports whether the replay finished without policy violations.
func (r CloseRoundResult) OK() bool {
	return len(r.Violations) == 0
}

// RolloverInput drives a close-and-advance operation.
type RolloverInput struct {
	RankingID      uuid.UUID
	ReferenceMonth time.Time
	ActorID        uuid.UUID

	// TargetMonth is the month to open next; zero means the month after
	// ReferenceMonth.
	TargetMonth time.Time

	// IncludeAll broadens the replay to every challenge resolved between
	// the reference month and the target month, bridging inactive gaps.
	IncludeAll bool
}
