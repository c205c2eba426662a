// Package store persists supervision history: worker lifecycle events
// and backend service heartbeats.
package store

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cirrus/internal/constants"
	cerrors "cirrus/internal/errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Config represents event store configuration
type Config struct {
	// Path is the SQLite database file, or ":memory:" for tests
	Path string
	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int
	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int
	// ConnMaxLifetime is the maximum lifetime of a connection
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a default configuration for the given path
func DefaultConfig(path string) *Config {
	return &Config{
		Path:            path,
		MaxOpenConns:    constants.DefaultMaxOpenConnections,
		MaxIdleConns:    constants.DefaultMaxIdleConnections,
		ConnMaxLifetime: constants.DefaultConnectionLifetime,
	}
}

// Store wraps sqlx.DB with the supervision schema
type Store struct {
	*sqlx.DB
	config *Config
}

// New opens the event store and applies pending migrations
func New(cfg *Config) (*Store, error) {
	if cfg.Path != ":memory:" {
		dir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return nil, cerrors.Wrap(cerrors.ErrStoreConnection, "failed to create store directory", err)
		}
	}

	db, err := sqlx.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrStoreConnection, "failed to open store", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, cerrors.Wrap(cerrors.ErrStoreConnection, "failed to ping store", err)
	}

	s := &Store{DB: db, config: cfg}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// migrate applies the embedded schema migrations
func (s *Store) migrate() error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return cerrors.Wrap(cerrors.ErrStoreMigration, "failed to create migration source", err)
	}

	dbInstance, err := sqlite3.WithInstance(s.DB.DB, &sqlite3.Config{})
	if err != nil {
		return cerrors.Wrap(cerrors.ErrStoreMigration, "failed to create sqlite3 driver instance", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", dbInstance)
	if err != nil {
		return cerrors.Wrap(cerrors.ErrStoreMigration, "failed to create migrator", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return cerrors.Wrap(cerrors.ErrStoreMigration, "failed to run migrations", err)
	}
	return nil
}

// Close closes the store
func (s *Store) Close() error {
	return s.DB.Close()
}

// HealthCheck verifies the store is reachable
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.PingContext(ctx); err != nil {
		return cerrors.Wrap(cerrors.ErrStoreConnection, fmt.Sprintf("store at %s unreachable", s.config.Path), err)
	}
	return nil
}
