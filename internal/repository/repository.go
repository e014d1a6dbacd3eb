package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Kind identifies a submission store backend.
type Kind string

const (
	KindMemory   Kind = "memory"
	KindPostgres Kind = "postgres"
	KindSQLite   Kind = "sqlite"
)

// KindOf classifies a storage connection string. Empty selects the in-memory
// store; sqlite: and file: select SQLite; anything else is handed to pgx.
func KindOf(databaseURL string) Kind {
	u := strings.TrimSpace(databaseURL)
	switch {
	case u == "":
		return KindMemory
	case strings.HasPrefix(u, "sqlite:"), strings.HasPrefix(u, "file:"):
		return KindSQLite
	default:
		return KindPostgres
	}
}

// Store is the submission store chosen at process start.
type Store struct {
	ContactRepository
	Kind  Kind
	close func()
}

// Close releases the backend's connections.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open selects and connects the submission store for databaseURL, applying
// pending migrations for the durable backends.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	kind := KindOf(databaseURL)
	switch kind {
	case KindPostgres:
		if err := migratePostgres(ctx, databaseURL); err != nil {
			return nil, err
		}
		pool, err := NewPool(ctx, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres : %w", err)
		}
		return &Store{ContactRepository: NewPgContactRepository(pool), Kind: kind, close: pool.Close}, nil

	case KindSQLite:
		db, err := openSQLite(databaseURL)
		if err != nil {
			return nil, err
		}
		if err := Migrate(ctx, db.DB, KindSQLite); err != nil {
			db.Close()
			return nil, err
		}
		return &Store{ContactRepository: NewSQLiteContactRepository(db), Kind: kind, close: func() { _ = db.Close() }}, nil

	default:
		return &Store{ContactRepository: NewMemoryContactRepository(), Kind: KindMemory}, nil
	}
}

// NewPool creates a PostgreSQL connection pool and verifies it with a ping.
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func migratePostgres(ctx context.Context, databaseURL string) error {
	db, _, err := OpenMigrationDB(databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	return Migrate(ctx, db, KindPostgres)
}

// sqliteDSN turns sqlite://path or sqlite:path into a modernc DSN with a busy
// timeout. file: URIs are passed through.
func sqliteDSN(databaseURL string) string {
	u := strings.TrimSpace(databaseURL)
	switch {
	case strings.HasPrefix(u, "sqlite://"):
		u = strings.TrimPrefix(u, "sqlite://")
	case strings.HasPrefix(u, "sqlite:"):
		u = strings.TrimPrefix(u, "sqlite:")
	}
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + "_pragma=busy_timeout(5000)"
}

func openSQLite(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", sqliteDSN(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("connecting to db : %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
