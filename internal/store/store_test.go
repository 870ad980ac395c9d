// store_test.go provides the shared database helper for store integration
// tests. Tests skip when PostgreSQL is not reachable.
package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"voiceaikb/internal/config"
	"voiceaikb/internal/database"
)

// testDB connects with the same POSTGRES_* settings the server uses,
// migrates, and empties the categories table before and after the test.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Skipf("skipping integration test: config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		t.Skipf("skipping integration test: %v", err)
	}
	if _, err := database.Migrate(ctx, db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	reset := func() {
		if _, err := db.Exec("DELETE FROM categories"); err != nil {
			t.Errorf("reset categories: %v", err)
		}
	}
	reset()
	t.Cleanup(func() {
		reset()
		db.Close()
	})
	return db
}
