package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMigrationRunner(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		if migrations[0].Name != "create_local_storage" {
			t.Errorf("expected first migration create_local_storage, got %q", migrations[0].Name)
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()
		ConfigureDatabase(db, 1, 1)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		if _, err := db.Exec("SELECT 1 FROM local_storage LIMIT 1"); err != nil {
			t.Errorf("local_storage table should exist after migrations: %v", err)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}

		if _, err := db.Exec("SELECT 1 FROM local_storage LIMIT 1"); err == nil {
			t.Error("local_storage table should be dropped after rollback")
		}

		if err := RollbackMigration(db); err == nil {
			t.Error("expected error when nothing is left to rollback")
		}
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()
		ConfigureDatabase(db, 1, 1)

		for i := 0; i < 2; i++ {
			if err := RunMigrations(db); err != nil {
				t.Fatalf("failed to run migrations (pass %d): %v", i+1, err)
			}
		}

		applied, err := AppliedVersions(db)
		if err != nil {
			t.Fatalf("failed to read applied versions: %v", err)
		}

		migrations, _ := loadMigrations()
		if len(applied) != len(migrations) {
			t.Errorf("expected %d migrations to be applied, got %d", len(migrations), len(applied))
		}
	})

	t.Run("OpenStorage", func(t *testing.T) {
		db, err := OpenStorage(StorageConfig{Path: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
		if err != nil {
			t.Fatalf("failed to open storage: %v", err)
		}
		defer db.Close()

		if _, err := db.Exec("INSERT INTO local_storage (key, value) VALUES ('k', 'v')"); err != nil {
			t.Errorf("expected migrated storage to accept writes: %v", err)
		}
	})
	t.Run("OpenStorage File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reel.db")
		db, err := OpenStorage(StorageConfig{Path: path})
		if err != nil {
			t.Fatalf("failed to open storage: %v", err)
		}
		db.Close()

		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected database file at %s: %v", path, err)
		}
	})

	t.Run("OpenStorage Missing Directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "reel.db")
		if _, err := OpenStorage(StorageConfig{Path: path}); !errors.Is(err, ErrSessionStorage) {
			t.Errorf("expected ErrSessionStorage, got %v", err)
		}
	})
}
