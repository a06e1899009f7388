package shared

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// busyTimeout is how long (ms) a write waits for a lock held by another reel process.
const busyTimeout = 5000

// NewDatabase opens the SQLite session database at path. ":memory:" opens a private in-memory
// database.
//
// The CLI and a running TUI may share one file, so file databases wait on locks instead of
// failing with SQLITE_BUSY.
func NewDatabase(path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" && !strings.Contains(path, "?") {
		dsn = fmt.Sprintf("file:%s?_busy_timeout=%d", path, busyTimeout)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", ErrSessionStorage, path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to open %s: %v", ErrSessionStorage, path, err)
	}

	return db, nil
}

// ConfigureDatabase applies the pool limits from [StorageConfig]; zero keeps the driver default.
//
// In-memory databases are private to a connection, so ":memory:" callers should keep maxOpenConns at 1.
func ConfigureDatabase(db *sql.DB, maxOpenConns, maxIdleConns int) {
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
}

// OpenStorage opens the session database described by cfg with every migration applied.
func OpenStorage(cfg StorageConfig) (*sql.DB, error) {
	db, err := NewDatabase(cfg.Path)
	if err != nil {
		return nil, err
	}
	ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrSessionStorage, err)
	}
	return db, nil
}
