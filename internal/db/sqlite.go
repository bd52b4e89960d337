package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS review_sessions (
    id          TEXT PRIMARY KEY,
    owner_id    TEXT NOT NULL,
    job_id      TEXT NOT NULL DEFAULT '',
    name        TEXT NOT NULL DEFAULT '',
    page_size   TEXT NOT NULL,
    layout      TEXT NOT NULL,
    items       TEXT NOT NULL DEFAULT '[]',
    decisions   TEXT NOT NULL DEFAULT '{}',
    archive_url TEXT NOT NULL DEFAULT '',
    menu_id     TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL,
    updated_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_review_sessions_owner ON review_sessions(owner_id, updated_at DESC);
`

// OpenSQLite opens or creates the local session database and initializes
// the schema.
func OpenSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite has a single writer
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}
