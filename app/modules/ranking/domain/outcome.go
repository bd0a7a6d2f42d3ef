package rankingdomain

import (
	rankingdb "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/infrastructure/repositories"
)

// HasResultEvidence reports whether a challenge carries any recorded result:
// game counts, a walkover flag, or an explicit winner.
func HasResultEvidence(c *rankingdb.Challenge) bool {
	return c.Winner != rankingdb.SideNone ||
		c.ChallengerWalkover || c.ChallengedWalkover ||
		c.ChallengerGames != nil || c.ChallengedGames != nil
}

// EffectiveStatus derives the status a challenge actually has. A challenge
// with result evidence counts as completed regardless of its stored status,
// except that cancelled always wins.
func EffectiveStatus(c *rankingdb.Challenge) rankingdb.ChallengeStatus {
	if c.Status == rankingdb.ChallengeStatusCancelled {
		return rankingdb.ChallengeStatusCancelled
	}
	if HasResultEvidence(c) {
		return rankingdb.ChallengeStatusCompleted
	}
	return c.Status
}

// ResolveWinner determines the winning side of a challenge, in fixed
// precedence order:
//
//  1. an explicitly stored winner
//  2. walkover flags (both sides walking over means no winner)
//  3. game counts (strictly more games wins; a tie means no winner)
func ResolveWinner(c *rankingdb.Challenge) rankingdb.ChallengeSide {
	if c.Winner != rankingdb.SideNone {
		return c.Winner
	}

	switch {
	case c.ChallengerWalkover && c.ChallengedWalkover:
		return rankingdb.SideNone
	case c.ChallengerWalkover:
		return rankingdb.SideChallenged
	case c.ChallengedWalkover:
		return rankingdb.SideChallenger
	}

	if c.ChallengerGames != nil && c.ChallengedGames != nil {
		switch {
		case *c.ChallengerGames > *c.ChallengedGames:
			return rankingdb.SideChallenger
		case *c.ChallengedGames > *c.ChallengerGames:
			return rankingdb.SideChallenged
		}
	}

	return rankingdb.SideNone
}
