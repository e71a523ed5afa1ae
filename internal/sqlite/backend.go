// Package sqlite implements the SQLite storage backend for the diagram store.
// A Store owns a single database connection; every public operation holds the
// Store mutex for its full duration, so writes and their read-backs are never
// interleaved with another caller.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/mermaid-ui/pkg/types"
)

// Store implements types.Store on an embedded SQLite database file.
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	path   string
	logger *slog.Logger
	now    func() time.Time
}

var _ types.Store = (*Store)(nil)

// Option configures a Store at Open time.
type Option func(*Store)

// WithLogger sets the logger used by the Store. The default is
// slog.Default() scoped to component=store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open creates DataDir if needed, opens or creates the database file inside
// it, ensures the schema exists, and seeds the default collection when the
// database holds no collections. Any failure leaves nothing open.
func Open(config types.Config, opts ...Option) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Store{
		logger: slog.Default().With("component", "store"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s.path = filepath.Join(config.DataDir, types.DatabaseFileName)

	db, err := sql.Open("sqlite", dsn(s.path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	seeded, err := seedDefaultCollection(db, s.timestamp())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("seed default collection: %w", err)
	}

	s.db = db
	s.logger.Info("store opened", "path", s.path, "seeded_default", seeded)
	return s, nil
}

// dsn returns a file: URI for path. The path is escaped so characters such
// as '?' and '#' stay part of the file name. foreign_keys is per connection;
// setting it in the DSN applies it to any connection the pool opens.
func dsn(path string) string {
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(path),
		RawQuery: "_pragma=foreign_keys(1)",
	}
	return u.String()
}

// createSchema runs all table and index DDL.
func createSchema(db *sql.DB) error {
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the location of the database file.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database connection. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// timestamp returns the current time in storage format.
func (s *Store) timestamp() string {
	return formatTime(s.now())
}
