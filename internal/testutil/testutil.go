package testutil

import (
	"context"
	"os"
	"testing"

	"zamflow/internal/store"
)

// OpenSQLite opens a shared-cache in-memory SQLite database with migrations
// applied. The database is closed via t.Cleanup.
func OpenSQLite(t *testing.T, name string) *store.DB {
	t.Helper()
	db, err := store.Open(context.Background(), "sqlite", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// OpenPostgres connects to ZAMFLOW_TEST_POSTGRES_URL and skips the test
// when it is unset or unreachable. Tables are truncated before returning.
func OpenPostgres(t *testing.T) *store.DB {
	t.Helper()
	dsn := os.Getenv("ZAMFLOW_TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("ZAMFLOW_TEST_POSTGRES_URL not set")
	}
	ctx := context.Background()
	db, err := store.Open(ctx, "postgres", dsn)
	if err != nil {
		t.Skipf("Failed to connect to test database: %v", err)
	}
	if _, err := db.ExecContext(ctx, `TRUNCATE users, products, sales, credentials`); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to clean up tables: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
