package db

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectPostgres() *pgxpool.Pool {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Fatal(err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal("Postgres connection failed:", err)
	}

	log.Println("✅ Connected to PostgreSQL")

	if err := initSchema(context.Background(), db); err != nil {
		log.Fatal("Failed to initialize schema:", err)
	}

	return db
}

func initSchema(ctx context.Context, db *pgxpool.Pool) error {
	// -------------------------------
	// REVIEW SESSIONS
	// -------------------------------
	sessionsSQL := `
		CREATE TABLE IF NOT EXISTS review_sessions (
			id UUID PRIMARY KEY,
			owner_id VARCHAR(255) NOT NULL,
			job_id VARCHAR(255) NOT NULL DEFAULT '',
			name VARCHAR(255) NOT NULL DEFAULT '',
			page_size VARCHAR(50) NOT NULL,
			layout VARCHAR(50) NOT NULL,
			items JSONB NOT NULL DEFAULT '[]',
			decisions JSONB NOT NULL DEFAULT '{}',
			archive_url VARCHAR(500) NOT NULL DEFAULT '',
			menu_id VARCHAR(255) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(ctx, sessionsSQL); err != nil {
		return err
	}

	indexSQL := `
		CREATE INDEX IF NOT EXISTS idx_review_sessions_owner
		ON review_sessions (owner_id, updated_at DESC)
	`
	if _, err := db.Exec(ctx, indexSQL); err != nil {
		return err
	}

	log.Println("✅ Schema initialized successfully")
	return nil
}
