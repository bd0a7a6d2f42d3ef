// Package testutils generates randomized ladder data for tests.
package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	rankingdb "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/infrastructure/repositories"
)

// TestDataGenerator provides methods to create test data for ladder tests.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a new test data generator with optional seed.
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}

	return &TestDataGenerator{
		faker: gofakeit.New(uint64(s)),
		seed:  s,
	}
}

// Seed returns the seed in use, for reproducing a failing run.
func (g *TestDataGenerator) Seed() int64 {
	return g.seed
}

// GenerateRanking creates a ranking with a plausible club name and slug.
func (g *TestDataGenerator) GenerateRanking() *rankingdb.Ranking {
	name := g.faker.Adjective() + " " + g.faker.NounConcrete() + " ladder"
	slug, _ := g.faker.Generate("??????")
	return &rankingdb.Ranking{
		ID:          uuid.New(),
		Name:        name,
		Slug:        slug,
		Description: g.faker.Sentence(6),
		Active:      true,
	}
}

// GenerateLadder creates count memberships at dense positions 1..count. A few
// members come out locked or suspended so replay tests hit those paths.
func (g *TestDataGenerator) GenerateLadder(rankingID uuid.UUID, count int) []rankingdb.Membership {
	ms := make([]rankingdb.Membership, 0, count)
	for i := 1; i <= count; i++ {
		ms = append(ms, rankingdb.Membership{
			ID:                uuid.New(),
			RankingID:         rankingID,
			PlayerID:          uuid.New(),
			Position:          i,
			Points:            g.faker.Number(0, 40),
			BluePointEligible: g.faker.Bool(),
			Locked:            g.faker.Number(1, 20) == 1,
			Suspended:         g.faker.Number(1, 20) == 1,
		})
	}
	return ms
}

// GenerateChallenges creates count challenges between random members of the
// ladder, resolved at random instants inside the month. Roughly one in five
// comes out unresolved, and winners are decided through the whole mix of
// stored winners, walkovers, and game counts.
func (g *TestDataGenerator) GenerateChallenges(rankingID uuid.UUID, ladder []rankingdb.Membership, month time.Time, count int) []rankingdb.Challenge {
	monthEnd := month.AddDate(0, 1, 0).Add(-time.Second)
	challenges := make([]rankingdb.Challenge, 0, count)

	for i := 0; i < count; i++ {
		ci := g.faker.Number(0, len(ladder)-1)
		di := g.faker.Number(0, len(ladder)-1)
		for di == ci {
			di = g.faker.Number(0, len(ladder)-1)
		}

		playedAt := g.faker.DateRange(month, monthEnd)
		ch := rankingdb.Challenge{
			ID:           uuid.New(),
			RankingID:    rankingID,
			ChallengerID: ladder[ci].PlayerID,
			ChallengedID: ladder[di].PlayerID,
			Status:       rankingdb.ChallengeStatusAccepted,
			ScheduledAt:  playedAt,
			PlayedAt:     &playedAt,
		}

		switch g.faker.Number(0, 4) {
		case 0: // stored winner
			ch.Status = rankingdb.ChallengeStatusCompleted
			if g.faker.Bool() {
				ch.Winner = rankingdb.SideChallenger
			} else {
				ch.Winner = rankingdb.SideChallenged
			}
		case 1: // walkover
			if g.faker.Bool() {
				ch.ChallengerWalkover = true
			} else {
				ch.ChallengedWalkover = true
			}
		case 2, 3: // game counts
			cg := g.faker.Number(0, 3)
			dg := g.faker.Number(0, 3)
			ch.ChallengerGames = &cg
			ch.ChallengedGames = &dg
		case 4: // never resolved
			ch.Status = rankingdb.ChallengeStatusScheduled
			ch.PlayedAt = nil
		}

		challenges = append(challenges, ch)
	}
	return challenges
}
