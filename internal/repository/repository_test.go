package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/felps-dev/i-revenue-api/internal/database"
)

// openTestDB opens a fresh SQLite database under t.TempDir with the real
// migrations applied.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, users *UserRepo, email string) string {
	t.Helper()
	u, err := users.Create(context.Background(), "Felps", email, "hash")
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return u.ID
}
