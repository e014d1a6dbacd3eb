package repository

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var embedMigrations embed.FS

// goose keeps its dialect and filesystem in package state.
var gooseMu sync.Mutex

func migrationTarget(kind Kind) (dialect goose.Dialect, dir string, err error) {
	switch kind {
	case KindPostgres:
		return goose.DialectPostgres, "migrations/postgres", nil
	case KindSQLite:
		return goose.DialectSQLite3, "migrations/sqlite", nil
	default:
		return "", "", fmt.Errorf("no migrations for %s store", kind)
	}
}

// Migrate applies all pending migrations for kind.
func Migrate(ctx context.Context, db *sql.DB, kind Kind) error {
	return RunMigrations(ctx, db, kind, "up", goose.NopLogger())
}

// RunMigrations runs a goose command ("up", "status", "reset", "version",
// "down") against db. Output goes to logger.
func RunMigrations(ctx context.Context, db *sql.DB, kind Kind, command string, logger goose.Logger) error {
	dialect, dir, err := migrationTarget(kind)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(logger)
	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("setting dialect for migrations : %w", err)
	}
	if err := goose.RunContext(ctx, command, db, dir); err != nil {
		return fmt.Errorf("running migration %q : %w", command, err)
	}
	return nil
}

// OpenMigrationDB opens a database/sql handle suitable for goose.
func OpenMigrationDB(databaseURL string) (*sql.DB, Kind, error) {
	kind := KindOf(databaseURL)
	switch kind {
	case KindPostgres:
		db, err := sql.Open("pgx", databaseURL)
		if err != nil {
			return nil, kind, fmt.Errorf("opening postgres : %w", err)
		}
		return db, kind, nil
	case KindSQLite:
		db, err := openSQLite(databaseURL)
		if err != nil {
			return nil, kind, err
		}
		return db.DB, kind, nil
	default:
		return nil, kind, fmt.Errorf("DATABASE_URL is not set; the in-memory store has no schema")
	}
}
