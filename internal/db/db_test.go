package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestConnectPostgres(t *testing.T) {
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	pool := ConnectPostgres()
	defer pool.Close()

	var n int
	if err := pool.QueryRow(context.Background(), `SELECT count(*) FROM review_sessions`).Scan(&n); err != nil {
		t.Fatalf("review_sessions not queryable: %v", err)
	}
}

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.Get(&n, `SELECT count(*) FROM review_sessions`); err != nil {
		t.Fatalf("review_sessions not queryable: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected empty table, got %d rows", n)
	}

	// reopening must not fail on the existing schema
	db.Close()
	again, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	again.Close()
}
