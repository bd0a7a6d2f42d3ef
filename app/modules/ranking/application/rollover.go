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

// RolloverRound closes the reference month and opens the target month. The
// close must be clean: any violation aborts the rollover with ErrCloseRejected
// and the ladder stays untouched. An existing round row for the target month
// is reopened instead of duplicated.
func (s *RankingService) RolloverRound(ctx context.Context, input RolloverInput) (CloseRoundResult, error) {
	month := input.ReferenceMonth
	if month.IsZero() || !month.Equal(rankingdomain.NormalizeMonth(month)) {
		return CloseRoundResult{}, fmt.Errorf("%w: %v", ErrInvalidReferenceMonth, month)
	}

	target := rankingdomain.NextMonth(month)
	if !input.TargetMonth.IsZero() {
		target = rankingdomain.NormalizeMonth(input.TargetMonth)
	}
	if !target.After(month) {
		return CloseRoundResult{}, fmt.Errorf("%w: target %v is not after %v", ErrInvalidReferenceMonth, target, month)
	}

	closeInput := CloseRoundInput{
		RankingID:          input.RankingID,
		ReferenceMonth:     month,
		ActorID:            input.ActorID,
		PersistMemberships: true,
		CloseStatus:        true,
	}
	if input.IncludeAll {
		// Bridge months with no closes: replay everything resolved up to
		// the target month in one pass.
		closeInput.ReplayThrough = target
	}

	result, err := s.CloseRound(ctx, closeInput)
	if err != nil {
		return CloseRoundResult{}, err
	}
	if !result.OK() {
		return result, fmt.Errorf("%w: %d violations", ErrCloseRejected, len(result.Violations))
	}

	var opened *rankingdb.Round
	err = runInTx(s, ctx, func(ctx context.Context, db bun.IDB) error {
		round, err := s.repo.GetRoundByMonth(ctx, db, &input.RankingID, target)
		switch {
		case err == nil:
			if round.Status != rankingdb.RoundStatusOpen {
				if err := s.repo.SetRoundStatus(ctx, db, round.ID, rankingdb.RoundStatusOpen); err != nil {
					return err
				}
				round.Status = rankingdb.RoundStatusOpen
			}
			opened = round
			return nil
		case errors.Is(err, rankingdb.ErrRoundNotFound):
			round = defaultRound(input.RankingID, target)
			if err := s.repo.InsertRound(ctx, db, round); err != nil {
				return err
			}
			opened = round
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return CloseRoundResult{}, err
	}

	s.logger.Info("Rolled round over",
		slog.String("ranking_id", input.RankingID.String()),
		slog.Time("closed_month", month),
		slog.Time("opened_month", target),
	)
	s.metrics.incRoundsRolledOver()
	s.publishRoundOpened(ctx, input.RankingID, opened)

	return result, nil
}

// defaultRound builds a round with the club's standard calendar: the blue
// window on the first business day from 07:00, challenges open on the second
// business day, matches due by month end.
func defaultRound(rankingID uuid.UUID, month time.Time) *rankingdb.Round {
	roundOpens := month
	blueOpens := rankingdomain.At(rankingdomain.FirstBusinessDay(month), 7, 0)
	blueCloses := rankingdomain.At(rankingdomain.FirstBusinessDay(month), 23, 59)
	openStarts := rankingdomain.At(rankingdomain.SecondBusinessDay(month), 7, 0)
	monthEnd := rankingdomain.MonthEnd(month)

	id := rankingID
	return &rankingdb.Round{
		RankingID:       &id,
		ReferenceMonth:  month,
		Status:          rankingdb.RoundStatusOpen,
		RoundOpens:      &roundOpens,
		BlueOpens:       &blueOpens,
		BlueCloses:      &blueCloses,
		OpenStarts:      &openStarts,
		OpenEnds:        &monthEnd,
		MatchesDeadline: &monthEnd,
	}
}

func (s *RankingService) publishRoundOpened(ctx context.Context, rankingID uuid.UUID, round *rankingdb.Round) {
	if s.eventBus == nil || round == nil {
		return
	}

	payload, err := json.Marshal(rankingevents.RoundOpenedPayload{
		RankingID:      &rankingID,
		RoundID:        round.ID,
		ReferenceMonth: round.ReferenceMonth,
		OpenedAt:       time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("Failed to marshal round opened event", slog.Any("error", err))
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.eventBus.Publish(ctx, rankingevents.RoundOpenedV1, msg); err != nil {
		s.logger.Error("Failed to publish round opened event", slog.Any("error", err))
	}
}
