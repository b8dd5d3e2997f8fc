package database

import (
	"path/filepath"
	"testing"

	"scoutlink/config"

	"gorm.io/gorm"
)

// OpenTest returns a migrated SQLite database in a temporary directory.
// It is closed automatically when the test ends.
func OpenTest(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		DBDriver:    "sqlite",
		DatabaseURL: filepath.Join(t.TempDir(), "test.db"),
	}
	db, err := Open(cfg)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = Close(db)
	})
	return db
}
