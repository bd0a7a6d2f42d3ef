package rankingdb

import "errors"

var (
	// ErrRankingNotFound is returned when no ranking matches the lookup.
	ErrRankingNotFound = errors.New("ranking not found")

	// ErrNoOpenRound is returned when neither a scoped nor a global open
	// round exists.
	ErrNoOpenRound = errors.New("no open round")

	// ErrRoundNotFound is returned when a round lookup matches nothing.
	ErrRoundNotFound = errors.New("round not found")

	// ErrPositionConflict is returned when a bulk position write would
	// break the dense unique-position invariant.
	ErrPositionConflict = errors.New("membership position conflict")
)
