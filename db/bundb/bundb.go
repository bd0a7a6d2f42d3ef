// Package bundb wires the bun ORM to Postgres for the service.
package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	rankingdb "github.com/Riverside-Racquet-Club/ladder-backend/app/modules/ranking/infrastructure/repositories"
	"github.com/Riverside-Racquet-Club/ladder-backend/config"
)

// DBService bundles the connection pool with the module repositories.
type DBService struct {
	RankingDB *rankingdb.RankingDBImpl
	db        *bun.DB
}

// GetDB returns the underlying database connection pool.
func (dbService *DBService) GetDB() *bun.DB {
	return dbService.db
}

// NewBunDBService initializes a new DBService with the provided Postgres
// configuration.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger) (*DBService, error) {
	sqldb, err := pgConn(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())

	db.RegisterModel(
		(*rankingdb.Ranking)(nil),
		(*rankingdb.Round)(nil),
		(*rankingdb.Membership)(nil),
		(*rankingdb.Challenge)(nil),
		(*rankingdb.RankingSnapshot)(nil),
		(*rankingdb.AuditEntry)(nil),
	)

	if logger != nil {
		logger.Info("Database connection established")
	}

	return &DBService{
		RankingDB: &rankingdb.RankingDBImpl{},
		db:        db,
	}, nil
}

func pgConn(ctx context.Context, dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	if err := sqldb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return sqldb, nil
}
