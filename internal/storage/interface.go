/*
Package storage implements the persistent search-history log.

Every search served by the CLI, the HTTP API or the MCP server can be
recorded here for analytics. Queries are stored as SHA256 hashes, never in
clear text. The log degrades gracefully: if the database is unavailable
every operation becomes a no-op and searches keep working.

The database is stored at ~/.catalog-search/history.db by default and uses
modernc.org/sqlite (a pure Go, CGo-free implementation).
*/
package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Storage defines the interface for persistent storage operations.
type Storage interface {
	// Init initializes the database and runs migrations.
	Init() error

	// RecordSearch records a search for analytics.
	RecordSearch(search SearchRecord) error

	// RecentSearches returns the most recent searches, newest first.
	RecentSearches(limit int) ([]SearchRecord, error)

	// GetSearchStats aggregates searches recorded since the given time.
	GetSearchStats(since time.Time) (*SearchStats, error)

	// Cleanup removes old records based on retention policy.
	Cleanup(retention time.Duration) error

	// Close closes the database connection.
	Close() error
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	enabled  bool
	logger   *zap.Logger
	mu       sync.Mutex
	initOnce sync.Once
}

// DefaultPath returns ~/.catalog-search/history.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".catalog-search", "history.db"), nil
}

// NewStorage creates a storage instance at the default path.
//
// If the home directory cannot be resolved, the storage is disabled but
// operations will not fail.
func NewStorage(logger *zap.Logger) *SQLiteStorage {
	if logger == nil {
		logger = zap.NewNop()
	}

	dbPath, err := DefaultPath()
	if err != nil {
		logger.Warn("search history disabled", zap.Error(err))
		return &SQLiteStorage{enabled: false, logger: logger}
	}

	return NewStorageAt(dbPath, logger)
}

// NewStorageAt creates a storage instance backed by the database at dbPath.
func NewStorageAt(dbPath string, logger *zap.Logger) *SQLiteStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLiteStorage{
		dbPath:  dbPath,
		enabled: true,
		logger:  logger,
	}
}

// Init initializes the database and runs migrations.
//
// If initialization fails, storage is disabled and subsequent operations
// become no-ops (graceful degradation).
func (s *SQLiteStorage) Init() error {
	if !s.enabled {
		return nil
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	var initErr error
	s.initOnce.Do(func() {
		dbDir := filepath.Dir(s.dbPath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			initErr = fmt.Errorf("failed to create db directory: %w", err)
			s.enabled = false
			s.logger.Warn("search history disabled", zap.Error(initErr))
			return
		}

		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			initErr = fmt.Errorf("failed to open database: %w", err)
			s.enabled = false
			s.logger.Warn("search history disabled", zap.Error(initErr))
			return
		}
		s.db = db

		if err := db.Ping(); err != nil {
			initErr = fmt.Errorf("failed to ping database: %w", err)
			s.enabled = false
			s.logger.Warn("search history disabled", zap.Error(initErr))
			return
		}

		if err := s.runMigrations(); err != nil {
			initErr = fmt.Errorf("failed to run migrations: %w", err)
			s.enabled = false
			s.logger.Warn("search history disabled", zap.Error(initErr))
			return
		}
	})

	return initErr
}

// Enabled reports whether the database is usable.
func (s *SQLiteStorage) Enabled() bool {
	return s.enabled && s.db != nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	s.db = nil
	return nil
}

// HashQuery creates a SHA256 hash of a query string for privacy.
func HashQuery(query string) string {
	hash := sha256.Sum256([]byte(query))
	return hex.EncodeToString(hash[:])
}
