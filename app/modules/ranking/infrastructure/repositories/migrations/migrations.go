package rankingmigrations

import "github.com/uptrace/bun/migrate"

// Migrations is the registry for the ranking module's Go migrations.
var Migrations = migrate.NewMigrations()
