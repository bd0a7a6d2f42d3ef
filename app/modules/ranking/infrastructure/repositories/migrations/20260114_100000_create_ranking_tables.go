package rankingmigrations

import (
	"context"
	"fmt"

	rankingdb "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating ranking tables...")

			if _, err := db.NewCreateTable().Model((*rankingdb.Ranking)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}

			if _, err := db.NewCreateTable().Model((*rankingdb.Round)(nil)).
				ForeignKey(`(ranking_id) REFERENCES rankings (id) ON DELETE CASCADE`).
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}

			if _, err := db.NewCreateTable().Model((*rankingdb.Membership)(nil)).
				ForeignKey(`(ranking_id) REFERENCES rankings (id) ON DELETE CASCADE`).
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}

			if _, err := db.NewCreateTable().Model((*rankingdb.Challenge)(nil)).
				ForeignKey(`(ranking_id) REFERENCES rankings (id) ON DELETE CASCADE`).
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}

			if _, err := db.NewCreateTable().Model((*rankingdb.RankingSnapshot)(nil)).
				ForeignKey(`(ranking_id) REFERENCES rankings (id) ON DELETE CASCADE`).
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}

			if _, err := db.NewCreateTable().Model((*rankingdb.AuditEntry)(nil)).
				ForeignKey(`(ranking_id) REFERENCES rankings (id) ON DELETE CASCADE`).
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}

			// Uniqueness and replay-order indexes.
			stmts := []string{
				"CREATE UNIQUE INDEX IF NOT EXISTS idx_memberships_ranking_position ON memberships (ranking_id, position)",
				"CREATE UNIQUE INDEX IF NOT EXISTS idx_memberships_ranking_player ON memberships (ranking_id, player_id)",
				"CREATE UNIQUE INDEX IF NOT EXISTS idx_snapshots_ranking_month_player ON ranking_snapshots (ranking_id, month, type, player_id)",
				"CREATE UNIQUE INDEX IF NOT EXISTS idx_rounds_ranking_month ON rounds (COALESCE(ranking_id, '00000000-0000-0000-0000-000000000000'::uuid), reference_month)",
				"CREATE INDEX IF NOT EXISTS idx_challenges_ranking_resolved ON challenges (ranking_id, COALESCE(played_at, scheduled_at))",
				"CREATE INDEX IF NOT EXISTS idx_audit_log_ranking ON ranking_audit_log (ranking_id, created_at)",
			}
			for _, stmt := range stmts {
				if _, err := db.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("index creation failed: %w", err)
				}
			}

			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping ranking tables...")
			for _, table := range []string{
				"ranking_audit_log",
				"ranking_snapshots",
				"challenges",
				"memberships",
				"rounds",
				"rankings",
			} {
				if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
					return err
				}
			}
			return nil
		},
	)
}
