package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"ledger/internal/log"
)

// MemoryPath selects a transient database that lives as long as the process.
const MemoryPath = ":memory:"

var ErrNotFound = errors.New("expense not found")

// SQLiteRepository owns the expenses table. Each operation acquires its own
// connection from the pool and releases it before returning.
type SQLiteRepository struct {
	db   *sqlx.DB
	path string
}

// NewSQLiteRepository opens the database at dbPath and applies the schema.
// Any error here leaves nothing open.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, errors.New("empty database path")
	}

	inMemory := dbPath == MemoryPath
	if !inMemory {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", dataSourceName(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if inMemory {
		// A :memory: database belongs to a single connection, so the pool is
		// pinned to one connection that is never recycled.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	log.Default(log.ComponentStorage).Debug("SQLite repository ready", "path", dbPath, "in_memory", inMemory)

	return &SQLiteRepository{db: db, path: dbPath}, nil
}

// dataSourceName enables WAL and a busy timeout for file-backed databases.
func dataSourceName(dbPath string) string {
	if dbPath == MemoryPath {
		return dbPath
	}
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

// Path returns the location the repository was opened with.
func (r *SQLiteRepository) Path() string {
	return r.path
}

// Ping checks that the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// SchemaVersion returns the applied migration version.
func (r *SQLiteRepository) SchemaVersion() (uint, bool, error) {
	return SchemaVersion(r.db.DB)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
