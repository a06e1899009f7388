package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// LocalStorageRepository persists string values under fixed keys in the local_storage table.
//
// Writes are upserts, so concurrent writers resolve as last-write-wins.
type LocalStorageRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewLocalStorageRepository creates a new [LocalStorageRepository] with the given database connection
func NewLocalStorageRepository(db *sql.DB) *LocalStorageRepository {
	return &LocalStorageRepository{db: db, now: time.Now}
}

// Get returns the value stored under key and whether it exists.
func (r *LocalStorageRepository) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM local_storage WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query %s: %w", key, err)
	}
	return value, true, nil
}

// SetMany stores every pair in one transaction, replacing previous values. Either every pair is
// written or none is.
func (r *LocalStorageRepository) SetMany(values map[string]string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := r.now().UTC()
	for k, v := range values {
		if _, err := stmt.Exec(k, v, now); err != nil {
			return fmt.Errorf("failed to store %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes the given keys. Missing keys are ignored.
func (r *LocalStorageRepository) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	query := fmt.Sprintf("DELETE FROM local_storage WHERE key IN (%s)", placeholders)
	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}

// UpdatedAt returns when key was last written.
func (r *LocalStorageRepository) UpdatedAt(key string) (time.Time, bool, error) {
	var ts time.Time
	err := r.db.QueryRow("SELECT updated_at FROM local_storage WHERE key = ?", key).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query %s: %w", key, err)
	}
	return ts, true, nil
}
