package main

import (
	"context"
	"log"
	"os"
	"strings"

	"menumaker/internal/auth"
	"menumaker/internal/backend"
	"menumaker/internal/db"
	"menumaker/internal/review"
	"menumaker/internal/router"
	"menumaker/internal/storage"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	required := []string{
		"JWT_SECRET",
		"BACKEND_URL",
	}

	for _, k := range required {
		if os.Getenv(k) == "" {
			log.Fatalf("❌ Missing env var: %s", k)
		}
	}

	// money goes out as JSON numbers, as the UI expects
	decimal.MarshalJSONWithoutQuotes = true

	// ───────────────────────── SESSION STORE ─────────────────────────
	var repo review.Repository

	switch {
	case os.Getenv("DATABASE_URL") != "":
		pgDB := db.ConnectPostgres()
		defer pgDB.Close()
		repo = review.NewPostgresRepository(pgDB)

	case os.Getenv("SQLITE_PATH") != "":
		sqliteDB, err := db.OpenSQLite(os.Getenv("SQLITE_PATH"))
		if err != nil {
			log.Fatal("❌ SQLite init failed:", err)
		}
		defer sqliteDB.Close()
		log.Println("✅ Using SQLite session store at", os.Getenv("SQLITE_PATH"))
		repo = review.NewSQLiteRepository(sqliteDB)

	default:
		log.Println("⚠️  No DATABASE_URL or SQLITE_PATH, sessions are kept in memory")
		repo = review.NewInMemoryRepository()
	}

	// ───────────────────────── STORAGE ─────────────────────────
	var archive review.Archive

	r2Config, err := storage.R2ConfigFromEnv()
	if err == nil {
		r2Client, err := storage.NewR2Client(context.Background(), r2Config)
		if err != nil {
			log.Fatal("❌ R2 init failed:", err)
		}
		archive = r2Client
		log.Println("✅ Archiving uploads to R2 bucket", r2Config.Bucket)
	} else {
		log.Println("⚠️  R2 not configured, uploads are not archived")
	}

	// ───────────────────────── BACKEND ─────────────────────────
	backendClient := backend.NewClient(os.Getenv("BACKEND_URL"))

	// ───────────────────────── SERVICES + HANDLERS ─────────────────────────
	reviewService := review.NewService(repo, backendClient, archive, review.Options{
		DefaultPageSize: os.Getenv("DEFAULT_PAGE_SIZE"),
		DefaultLayout:   os.Getenv("DEFAULT_LAYOUT"),
	})

	r := router.NewRouter(router.Config{
		CORSOrigins: corsOrigins(),
		Auth:        auth.NewHandler(backendClient),
		Review:      review.NewHandler(reviewService),
		Account:     backendClient,
	})

	// ───────────────────────── START ─────────────────────────
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	log.Printf("🚀 API running at http://localhost:%s (backend %s)", port, os.Getenv("BACKEND_URL"))
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func corsOrigins() []string {
	raw := os.Getenv("CORS_ORIGINS")
	if raw == "" {
		return []string{"http://localhost:3000", "http://localhost:5173"}
	}

	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
