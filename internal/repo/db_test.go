package repo

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenSQLite_MissingParentDir(t *testing.T) {
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "nope", "app.db"))
	if err == nil {
		t.Fatalf("expected error for missing parent directory")
	}
}

func TestOpenSQLite_AndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	// Both tables usable after migration.
	if _, _, err := UpsertIntent(context.Background(), db, "hello", "Hi!"); err != nil {
		t.Fatalf("upsert after migrate: %v", err)
	}
	if _, err := CreateConversation(context.Background(), db, "m", "r", false, ""); err != nil {
		t.Fatalf("create conversation after migrate: %v", err)
	}
}
