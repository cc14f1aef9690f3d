package services

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/codyseavey/magic-collector/internal/database"
)

// newTestDB opens a migrated sqlite database in a per-test temp dir.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	return db
}

func strPtr(s string) *string {
	return &s
}
