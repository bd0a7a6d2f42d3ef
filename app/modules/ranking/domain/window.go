package rankingdomain

import (
	"time"

	"github.com/google/uuid"

	rankingdb "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/infrastructure/repositories"
)

// Window is the ordered set of boundary instants delimiting one round's
// challenge phases. BuildWindow and FallbackWindow guarantee
// RoundStart ≤ BlueStart ≤ BlueEnd ≤ OpenStart ≤ OpenEnd ≤ RoundEnd, so a
// malformed or historical round configuration can never produce an inverted
// window.
type Window struct {
	RankingID  uuid.UUID
	RoundID    *uuid.UUID
	RoundStart time.Time
	RoundEnd   *time.Time
	BlueStart  time.Time
	BlueEnd    *time.Time
	OpenStart  time.Time
	OpenEnd    *time.Time
}

// BuildWindow derives the clamped window for a persisted round.
func BuildWindow(round *rankingdb.Round, rankingID uuid.UUID) Window {
	roundStart := NormalizeMonth(round.ReferenceMonth)
	if round.RoundOpens != nil {
		roundStart = *round.RoundOpens
	}

	var roundEnd *time.Time
	if round.MatchesDeadline != nil {
		end := *round.MatchesDeadline
		if end.Before(roundStart) {
			end = roundStart
		}
		roundEnd = &end
	}

	blueStart := roundStart
	if round.BlueOpens != nil && round.BlueOpens.After(roundStart) {
		blueStart = *round.BlueOpens
	}

	var blueEnd *time.Time
	if round.BlueCloses != nil {
		end := *round.BlueCloses
		if end.Before(blueStart) {
			end = blueStart
		}
		blueEnd = &end
	}

	openStart := blueStart
	if blueEnd != nil {
		openStart = *blueEnd
	}
	if round.OpenStarts != nil && round.OpenStarts.After(openStart) {
		openStart = *round.OpenStarts
	}
	// Blue boundaries may not spill past the open window.
	if blueStart.After(openStart) {
		blueStart = openStart
	}
	if blueEnd != nil && blueEnd.After(openStart) {
		blueEnd = &openStart
	}

	var openEnd *time.Time
	if round.OpenEnds != nil {
		end := *round.OpenEnds
		if end.Before(openStart) {
			end = openStart
		}
		if roundEnd != nil && end.After(*roundEnd) {
			end = *roundEnd
		}
		openEnd = &end
	}

	roundID := round.ID
	return Window{
		RankingID:  rankingID,
		RoundID:    &roundID,
		RoundStart: roundStart,
		RoundEnd:   roundEnd,
		BlueStart:  blueStart,
		BlueEnd:    blueEnd,
		OpenStart:  openStart,
		OpenEnd:    openEnd,
	}
}

// FallbackWindow synthesizes a window for the calendar month containing now
// when no open round exists: the round spans the whole month, the blue-point
// window is the first 24 hours starting 07:00 local on day one, and open
// challenges run for the remainder of the month.
func FallbackWindow(rankingID uuid.UUID, now time.Time) Window {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	blueStart := At(monthStart, 7, 0)
	blueEnd := blueStart.Add(24 * time.Hour)
	openStart := blueEnd
	monthEnd := MonthEnd(monthStart)

	return Window{
		RankingID:  rankingID,
		RoundStart: monthStart,
		RoundEnd:   &monthEnd,
		BlueStart:  blueStart,
		BlueEnd:    &blueEnd,
		OpenStart:  openStart,
		OpenEnd:    &monthEnd,
	}
}
