package rankingevents

import (
	"time"

	"github.com/google/uuid"
)

// Stream and topic names for ranking events on JetStream.
const (
	StreamName = "ranking"

	RoundClosedV1   = "ranking.round.closed.v1"
	RoundOpenedV1   = "ranking.round.opened.v1"
	LadderUpdatedV1 = "ranking.ladder.updated.v1"
)

// RoundClosedPayload announces that a round was closed for a ranking.
type RoundClosedPayload struct {
	RankingID      uuid.UUID `json:"ranking_id"`
	RoundID        uuid.UUID `json:"round_id"`
	ReferenceMonth time.Time `json:"reference_month"`
	ActorID        uuid.UUID `json:"actor_id"`
	ManualOverride bool      `json:"manual_override"`
	ClosedAt       time.Time `json:"closed_at"`
}

// RoundOpenedPayload announces the provisioning of a new open round.
type RoundOpenedPayload struct {
	RankingID      *uuid.UUID `json:"ranking_id,omitempty"`
	RoundID        uuid.UUID  `json:"round_id"`
	ReferenceMonth time.Time  `json:"reference_month"`
	OpenedAt       time.Time  `json:"opened_at"`
}

// LadderEntry is one row of a published ladder.
type LadderEntry struct {
	Position int       `json:"position"`
	PlayerID uuid.UUID `json:"player_id"`
	Movement string    `json:"movement"`
}

// LadderUpdatedPayload carries the full new ladder after a persisting close.
type LadderUpdatedPayload struct {
	RankingID      uuid.UUID     `json:"ranking_id"`
	ReferenceMonth time.Time     `json:"reference_month"`
	Entries        []LadderEntry `json:"entries"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
