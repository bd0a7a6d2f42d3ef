package rankingdomain

// RankingConfig carries the per-ranking rule knobs the closer applies. It is
// resolved once per operation and passed explicitly; nothing reads it from
// process-wide state.
type RankingConfig struct {
	// MaxPositionsUp caps how many positions a player may climb within one
	// round. Outcomes beyond the cap are reported as violations.
	MaxPositionsUp int

	// DefeatDistance is how many positions a losing challenger falls.
	DefeatDistance int

	// CategoryBounds are the ascending position boundaries of the ladder's
	// categories. A player's category is the first bound their position
	// fits under; positions beyond the last bound form the open tail.
	// A challenger may reach at most one category above their own.
	CategoryBounds []int
}

// DefaultRankingConfig returns the club's stock rules: a ten-position climb
// cap and category bounds at 10, 20 and 30.
func DefaultRankingConfig() RankingConfig {
	return RankingConfig{
		MaxPositionsUp: 10,
		DefeatDistance: 1,
		CategoryBounds: []int{10, 20, 30},
	}
}

// CategoryOf returns the 0-based category index for a 1-based position.
// Positions beyond the last bound share the index after the final category.
func (c RankingConfig) CategoryOf(position int) int {
	for i, bound := range c.CategoryBounds {
		if position <= bound {
			return i
		}
	}
	return len(c.CategoryBounds)
}

// ChallengeAdmissible reports whether a challenger at challengerPos may
// challenge a player at challengedPos: crossing more than one category
// boundary upward is not allowed.
func (c RankingConfig) ChallengeAdmissible(challengerPos, challengedPos int) bool {
	return c.CategoryOf(challengerPos)-c.CategoryOf(challengedPos) <= 1
}
