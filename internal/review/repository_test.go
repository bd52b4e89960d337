package review

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"menumaker/internal/db"
	"menumaker/internal/menu"
	"menumaker/internal/pricing"

	"github.com/google/uuid"
)

func sampleSession(ownerID string, updated time.Time) *Session {
	return &Session{
		ID:      uuid.New().String(),
		OwnerID: ownerID,
		JobID:   "job-1",
		Name:    "Dinner",
		Items: []menu.Item{
			{ID: "a", Name: "Soup", CurrentPrice: dec("10.50"), FoodCost: dec("3"), SuggestedPrice: nullDec("12")},
			{ID: "b", Name: "Bread", CurrentPrice: dec("4"), FoodCost: dec("0.75")},
		},
		Decisions: pricing.Decisions{
			"a": pricing.CustomPrice(dec("11.25")),
			"b": pricing.CustomFromInput("-2"),
		},
		PageSizeID: "letter",
		LayoutID:   "double",
		CreatedAt:  updated,
		UpdatedAt:  updated,
	}
}

func sessionIDs(sessions []*Session) []string {
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	return ids
}

// only keeps sessions whose id is in ids, preserving order.
func only(sessions []*Session, ids ...string) []*Session {
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}

	var out []*Session
	for _, s := range sessions {
		if keep[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

// exerciseRepository runs the same contract against every implementation.
// Owners and ids are unique per run so a shared database can be used.
func exerciseRepository(t *testing.T, repo Repository) {
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	owner1 := "owner-" + uuid.New().String()
	owner2 := "owner-" + uuid.New().String()

	older := sampleSession(owner1, base)
	newer := sampleSession(owner1, base.Add(time.Minute))
	other := sampleSession(owner2, base.Add(2*time.Minute))

	for _, s := range []*Session{older, newer, other} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}
	t.Cleanup(func() {
		for _, s := range []*Session{older, newer, other} {
			repo.Delete(context.Background(), s.ID)
		}
	})

	// ---------- round trip ----------
	got, err := repo.Get(ctx, older.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.OwnerID != owner1 || got.JobID != "job-1" || got.LayoutID != "double" {
		t.Errorf("unexpected columns: %+v", got)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}
	soup, bread := got.Items[0], got.Items[1]
	if !soup.CurrentPrice.Equal(dec("10.5")) || !soup.FoodCost.Equal(dec("3")) {
		t.Errorf("decimal fields lost: %+v", soup)
	}
	if !soup.SuggestedPrice.Valid || !soup.SuggestedPrice.Decimal.Equal(dec("12")) {
		t.Errorf("expected suggested price 12, got %+v", soup.SuggestedPrice)
	}
	if bread.SuggestedPrice.Valid || bread.ApprovedPrice.Valid {
		t.Errorf("null prices came back set: %+v", bread)
	}

	custom := got.Decisions["a"]
	if custom.Kind != pricing.Custom || !custom.CustomAmount.Decimal.Equal(dec("11.25")) {
		t.Errorf("custom decision lost: %+v", custom)
	}
	rejected := got.Decisions["b"]
	if rejected.CustomAmount.Valid || rejected.Input != "-2" {
		t.Errorf("rejected custom input lost: %+v", rejected)
	}
	if !got.UpdatedAt.Equal(base) || !got.CreatedAt.Equal(base) {
		t.Errorf("expected timestamps %s, got %s / %s", base, got.CreatedAt, got.UpdatedAt)
	}

	// returned sessions are copies
	got.Items[0].Name = "changed"
	again, _ := repo.Get(ctx, older.ID)
	if again.Items[0].Name != "Soup" {
		t.Error("mutating a returned session changed stored state")
	}

	// ---------- save ----------
	got.Decisions = pricing.Decisions{}
	got.LayoutID = "grid"
	got.MenuID = "menu-7"
	got.UpdatedAt = base.Add(time.Hour)
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	saved, _ := repo.Get(ctx, older.ID)
	if saved.LayoutID != "grid" || saved.MenuID != "menu-7" || len(saved.Decisions) != 0 {
		t.Errorf("save not applied: %+v", saved)
	}

	// ---------- list, newest first ----------
	mine, err := repo.ListByOwner(ctx, owner1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if ids := sessionIDs(mine); len(ids) != 2 || ids[0] != older.ID || ids[1] != newer.ID {
		t.Errorf("expected [%s %s], got %v", older.ID, newer.ID, ids)
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	ours := sessionIDs(only(all, older.ID, newer.ID, other.ID))
	if len(ours) != 3 || ours[0] != older.ID || ours[1] != other.ID || ours[2] != newer.ID {
		t.Errorf("expected newest first [%s %s %s], got %v", older.ID, other.ID, newer.ID, ours)
	}

	// ---------- not found ----------
	if err := repo.Delete(ctx, newer.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.Get(ctx, newer.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, newer.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := repo.Save(ctx, newer); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound saving a deleted session, got %v", err)
	}
	if _, err := repo.Get(ctx, "not-a-session"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for a malformed id, got %v", err)
	}
	if err := repo.Delete(ctx, "not-a-session"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting a malformed id, got %v", err)
	}

	if list, _ := repo.ListByOwner(ctx, "owner-"+uuid.New().String()); len(list) != 0 {
		t.Errorf("expected no sessions for an unknown owner, got %d", len(list))
	}
}

func TestInMemoryRepository(t *testing.T) {
	exerciseRepository(t, NewInMemoryRepository())
}

func TestSQLiteRepository(t *testing.T) {
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	exerciseRepository(t, NewSQLiteRepository(conn))
}

func TestPostgresRepository(t *testing.T) {
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	pool := db.ConnectPostgres()
	t.Cleanup(pool.Close)

	exerciseRepository(t, NewPostgresRepository(pool))
}
