package rankingservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	rankingdomain "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/domain"
	rankingevents "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/events"
	rankingdb "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/infrastructure/repositories"
)

// CloseRound replays the reference month's challenge outcomes against the
// persisted ladder, validates them against the ranking's limits, and — when
// clean and requested — persists the new ladder, audit log, and round status
// in one transaction. A result with violations never persists anything.
//
// The computation is a pure function of persisted state and challenges, so
// re-running with the same inputs before any persistence reproduces the same
// violation set.
func (s *RankingService) CloseRound(ctx context.Context, input CloseRoundInput) (CloseRoundResult, error) {
	month := input.ReferenceMonth
	if month.IsZero() || !month.Equal(rankingdomain.NormalizeMonth(month)) {
		return CloseRoundResult{}, fmt.Errorf("%w: %v", ErrInvalidReferenceMonth, month)
	}

	cfg := rankingdomain.DefaultRankingConfig()
	if input.Config != nil {
		cfg = *input.Config
	}

	replayThrough := rankingdomain.NextMonth(month)
	if !input.ReplayThrough.IsZero() {
		replayThrough = input.ReplayThrough
	}

	var (
		result      CloseRoundResult
		closedRound *rankingdb.Round
	)

	err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) error {
		if _, err := s.repo.GetRankingByID(ctx, db, input.RankingID); err != nil {
			return fmt.Errorf("failed to resolve ranking: %w", err)
		}

		memberships, err := s.repo.ListMemberships(ctx, db, input.RankingID)
		if err != nil {
			return err
		}

		if err := s.ensureStartSnapshot(ctx, db, input.RankingID, month, memberships); err != nil {
			return err
		}

		challenges, err := s.repo.ListChallengesBetween(ctx, db, input.RankingID, month, replayThrough)
		if err != nil {
			return err
		}

		replay := replayChallenges(memberships, challenges, cfg)
		result = CloseRoundResult{
			Violations: replay.violations,
			Log:        replay.log,
		}

		finalLadder := replay.sim.Result()
		movements := make(map[uuid.UUID]rankingdomain.Movement, len(finalLadder))
		for _, id := range finalLadder {
			movements[id] = replay.sim.MovementOf(id)
		}
		if input.ManualOrder != nil {
			if err := validateManualOrder(input.ManualOrder, memberships); err != nil {
				return err
			}
			finalLadder = input.ManualOrder
			result.ManualOverride = true
		}
		result.FinalLadder = finalLadder
		result.Movements = movements

		if !result.OK() {
			s.logger.Warn("Round close found violations",
				slog.String("ranking_id", input.RankingID.String()),
				slog.Time("reference_month", month),
				slog.Int("violations", len(result.Violations)),
			)
			return nil
		}

		if input.PersistMemberships {
			updates := buildPositionUpdates(finalLadder, replay.wins)
			if err := s.repo.ApplyPositionUpdates(ctx, db, input.RankingID, updates); err != nil {
				return err
			}

			entry := &rankingdb.AuditEntry{
				RankingID: input.RankingID,
				ActorID:   input.ActorID,
				Action:    "round_close",
				Details: map[string]any{
					"reference_month": month.Format("2006-01"),
					"challenges":      len(challenges),
					"manual_override": result.ManualOverride,
					"members":         len(memberships),
				},
			}
			if err := s.repo.InsertAuditEntry(ctx, db, entry); err != nil {
				return err
			}
			result.Persisted = true
		}

		if input.CloseStatus {
			round, err := s.repo.GetRoundByMonth(ctx, db, &input.RankingID, month)
			if errors.Is(err, rankingdb.ErrRoundNotFound) {
				// Fallback-window months have no persisted round to close.
				result.Log = append(result.Log, LogEntry{
					At:      time.Now().UTC(),
					Message: "no round row for month, nothing to close",
				})
				return nil
			}
			if err != nil {
				return err
			}
			if round.Status != rankingdb.RoundStatusClosed {
				if err := s.repo.SetRoundStatus(ctx, db, round.ID, rankingdb.RoundStatusClosed); err != nil {
					return err
				}
			}
			closedRound = round
		}

		return nil
	})
	if err != nil {
		return CloseRoundResult{}, err
	}

	s.metrics.addCloseViolations(len(result.Violations))
	if result.OK() && closedRound != nil {
		s.metrics.incRoundsClosed()
	}

	// Events go out only after the transaction committed.
	if result.Persisted {
		s.publishLadderUpdated(ctx, input.RankingID, month, result.FinalLadder, result.Movements)
	}
	if result.OK() && closedRound != nil {
		s.publishRoundClosed(ctx, input, closedRound, result.ManualOverride)
	}

	return result, nil
}

// replayState accumulates the outcome of feeding one month's challenges
// through a simulator.
type replayState struct {
	sim        *rankingdomain.Simulator
	violations []Violation
	log        []LogEntry
	wins       map[uuid.UUID]int
}

// replayChallenges seeds a simulator from the persisted ladder and applies
// each resolvable challenge in resolution order. Outcomes that break a
// configured limit are recorded as violations and contribute no movement.
func replayChallenges(memberships []rankingdb.Membership, challenges []rankingdb.Challenge, cfg rankingdomain.RankingConfig) replayState {
	baseline := make(map[int]uuid.UUID, len(memberships))
	suspended := make(map[uuid.UUID]bool)
	locked := make(map[uuid.UUID]bool)
	activeCount := 0
	for _, m := range memberships {
		baseline[m.Position] = m.PlayerID
		if m.Suspended {
			suspended[m.PlayerID] = true
		} else {
			activeCount++
		}
		if m.Locked {
			locked[m.PlayerID] = true
		}
	}

	st := replayState{
		sim:  rankingdomain.NewSimulator(baseline),
		wins: make(map[uuid.UUID]int),
	}

	for i := range challenges {
		ch := &challenges[i]

		if rankingdomain.EffectiveStatus(ch) != rankingdb.ChallengeStatusCompleted {
			st.log = append(st.log, LogEntry{
				At:      ch.ResolvedAt(),
				Message: fmt.Sprintf("challenge %s skipped: not completed", ch.ID),
			})
			continue
		}

		winner := rankingdomain.ResolveWinner(ch)
		if winner == rankingdb.SideNone {
			st.log = append(st.log, LogEntry{
				At:      ch.ResolvedAt(),
				Message: fmt.Sprintf("challenge %s skipped: no winner", ch.ID),
			})
			continue
		}

		if v := checkChallenge(ch, &st, cfg, suspended, locked); v != nil {
			st.violations = append(st.violations, *v)
			continue
		}

		challengerPos := st.sim.PositionOf(ch.ChallengerID)
		challengedPos := st.sim.PositionOf(ch.ChallengedID)

		switch winner {
		case rankingdb.SideChallenger:
			st.sim.ApplyVictory(ch.ChallengerID, ch.ChallengedID, challengedPos)
			st.wins[ch.ChallengerID]++
			st.log = append(st.log, LogEntry{
				At:      ch.ResolvedAt(),
				Message: fmt.Sprintf("challenge %s: challenger won, rises to %d", ch.ID, st.sim.PositionOf(ch.ChallengerID)),
			})
		case rankingdb.SideChallenged:
			st.sim.MarkDefenseWin(ch.ChallengedID)
			st.sim.ApplyDefeat(ch.ChallengerID, challengerPos, cfg.DefeatDistance, activeCount)
			st.wins[ch.ChallengedID]++
			st.log = append(st.log, LogEntry{
				At:      ch.ResolvedAt(),
				Message: fmt.Sprintf("challenge %s: defense held, challenger drops to %d", ch.ID, st.sim.PositionOf(ch.ChallengerID)),
			})
		}
	}

	return st
}

// checkChallenge applies the configured limits to one completed challenge.
func checkChallenge(ch *rankingdb.Challenge, st *replayState, cfg rankingdomain.RankingConfig, suspended, locked map[uuid.UUID]bool) *Violation {
	challengerPos := st.sim.PositionOf(ch.ChallengerID)
	challengedPos := st.sim.PositionOf(ch.ChallengedID)

	if challengerPos == 0 || challengedPos == 0 {
		return &Violation{ChallengeID: ch.ID, Reason: "participant is not on the ladder"}
	}
	if suspended[ch.ChallengerID] || suspended[ch.ChallengedID] {
		return &Violation{ChallengeID: ch.ID, Reason: "participant is suspended"}
	}
	if locked[ch.ChallengedID] {
		return &Violation{ChallengeID: ch.ID, Reason: "challenged player is locked"}
	}

	// Upward challenges only get the remaining checks.
	if challengedPos >= challengerPos {
		return nil
	}
	if !cfg.ChallengeAdmissible(challengerPos, challengedPos) {
		return &Violation{
			ChallengeID: ch.ID,
			Reason:      fmt.Sprintf("position %d may not challenge into position %d", challengerPos, challengedPos),
		}
	}
	if climb := challengerPos - challengedPos; climb > cfg.MaxPositionsUp {
		return &Violation{
			ChallengeID: ch.ID,
			Reason:      fmt.Sprintf("climb of %d exceeds limit %d", climb, cfg.MaxPositionsUp),
		}
	}
	return nil
}

// validateManualOrder requires a dense 1..N permutation covering exactly the
// current members.
func validateManualOrder(order map[int]uuid.UUID, memberships []rankingdb.Membership) error {
	if len(order) != len(memberships) {
		return fmt.Errorf("%w: %d entries for %d members", ErrInvalidManualOrder, len(order), len(memberships))
	}
	members := make(map[uuid.UUID]bool, len(memberships))
	for _, m := range memberships {
		members[m.PlayerID] = true
	}
	seen := make(map[uuid.UUID]bool, len(order))
	for pos := 1; pos <= len(order); pos++ {
		id, ok := order[pos]
		if !ok {
			return fmt.Errorf("%w: missing position %d", ErrInvalidManualOrder, pos)
		}
		if !members[id] {
			return fmt.Errorf("%w: player %s is not a member", ErrInvalidManualOrder, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: player %s listed twice", ErrInvalidManualOrder, id)
		}
		seen[id] = true
	}
	return nil
}

func buildPositionUpdates(ladder map[int]uuid.UUID, wins map[uuid.UUID]int) []rankingdb.PositionUpdate {
	updates := make([]rankingdb.PositionUpdate, 0, len(ladder))
	for pos := 1; pos <= len(ladder); pos++ {
		id := ladder[pos]
		updates = append(updates, rankingdb.PositionUpdate{
			PlayerID:    id,
			Position:    pos,
			PointsDelta: wins[id],
		})
	}
	return updates
}

func (s *RankingService) publishLadderUpdated(ctx context.Context, rankingID uuid.UUID, month time.Time, ladder map[int]uuid.UUID, movements map[uuid.UUID]rankingdomain.Movement) {
	if s.eventBus == nil {
		return
	}

	entries := make([]rankingevents.LadderEntry, 0, len(ladder))
	for pos := 1; pos <= len(ladder); pos++ {
		id := ladder[pos]
		movement := rankingdomain.MovementStatic
		if m, ok := movements[id]; ok {
			movement = m
		}
		entries = append(entries, rankingevents.LadderEntry{
			Position: pos,
			PlayerID: id,
			Movement: string(movement),
		})
	}
	payload, err := json.Marshal(rankingevents.LadderUpdatedPayload{
		RankingID:      rankingID,
		ReferenceMonth: month,
		Entries:        entries,
		UpdatedAt:      time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("Failed to marshal ladder update event", slog.Any("error", err))
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.eventBus.Publish(ctx, rankingevents.LadderUpdatedV1, msg); err != nil {
		s.logger.Error("Failed to publish ladder update event", slog.Any("error", err))
	}
}

func (s *RankingService) publishRoundClosed(ctx context.Context, input CloseRoundInput, round *rankingdb.Round, manualOverride bool) {
	if s.eventBus == nil {
		return
	}

	payload, err := json.Marshal(rankingevents.RoundClosedPayload{
		RankingID:      input.RankingID,
		RoundID:        round.ID,
		ReferenceMonth: round.ReferenceMonth,
		ActorID:        input.ActorID,
		ManualOverride: manualOverride,
		ClosedAt:       time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("Failed to marshal round closed event", slog.Any("error", err))
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.eventBus.Publish(ctx, rankingevents.RoundClosedV1, msg); err != nil {
		s.logger.Error("Failed to publish round closed event", slog.Any("error", err))
	}
}
