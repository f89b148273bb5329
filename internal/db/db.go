package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/akarpenko/tempo/internal/models"
)

// Store is the durable record store for sessions, scheduled tasks and
// their tag associations. All persisted state lives here; the tracker and
// planner layers hold none of their own.
type Store struct {
	db  *gorm.DB
	log *logrus.Entry
}

// Open opens (creating if needed) the sqlite database at path and runs
// migrations. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Quiet by default
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Single connection: keeps the foreign-key pragma in force everywhere
	// and keeps an in-memory database from being recreated per pooled
	// connection. Access is single-user and synchronous anyway.
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	// glebarez/sqlite ships with foreign keys off
	if err := gdb.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &Store{
		db:  gdb,
		log: logrus.WithField("component", "store"),
	}

	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store.log.WithField("path", path).Debug("store opened")
	return store, nil
}

// migrate creates/updates the database schema
func (s *Store) migrate() error {
	return s.db.AutoMigrate(
		&models.Session{},
		&models.SessionTag{},
		&models.ScheduledTask{},
		&models.TaskTag{},
	)
}

// Close checkpoints and closes the database connection. The checkpoint is
// best effort: an in-memory store has nothing to flush and that is fine.
func (s *Store) Close() error {
	if err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
		s.log.WithError(err).Debug("checkpoint skipped")
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
