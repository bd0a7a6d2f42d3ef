package rankingservice

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/uptrace/bun"

	rankingdb "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/infrastructure/repositories"
	"github.com/Riverside-Racquet-Club/ladder-backend/app/shared"
)

// RankingService implements the ranking module's operations: window
// resolution, round closing, rollover, and snapshots.
type RankingService struct {
	db       *bun.DB
	repo     rankingdb.Repository
	eventBus shared.EventBus
	logger   *slog.Logger
	metrics  *Metrics
}

// NewRankingService creates a new RankingService.
func NewRankingService(
	db *bun.DB,
	repo rankingdb.Repository,
	eventBus shared.EventBus,
	logger *slog.Logger,
	metrics *Metrics,
) *RankingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RankingService{
		db:       db,
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		metrics:  metrics,
	}
}

// runInTx runs fn inside a serializable transaction so concurrent close
// attempts for the same ranking and month cannot interleave partial writes;
// the loser surfaces a conflict error for the caller to retry. With no
// database wired (tests), fn runs directly.
func runInTx(s *RankingService, ctx context.Context, fn func(ctx context.Context, db bun.IDB) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return s.db.RunInTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}
