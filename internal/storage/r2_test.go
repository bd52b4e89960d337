package storage

import (
	"errors"
	"strings"
	"testing"
)

func TestMenuKey(t *testing.T) {
	key := MenuKey("owner-1", "Dinner Menu.PDF")

	if !strings.HasPrefix(key, "menus/owner-1/") {
		t.Fatalf("unexpected prefix: %s", key)
	}
	if !strings.HasSuffix(key, ".pdf") {
		t.Fatalf("expected lowercased extension: %s", key)
	}
	if key == MenuKey("owner-1", "Dinner Menu.PDF") {
		t.Fatal("expected unique keys per upload")
	}
}

func TestR2ConfigFromEnv(t *testing.T) {
	t.Setenv("R2_ENDPOINT", "")
	t.Setenv("R2_BUCKET_NAME", "")

	if _, err := R2ConfigFromEnv(); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}

	t.Setenv("R2_ENDPOINT", "https://acct.r2.cloudflarestorage.com")
	t.Setenv("R2_BUCKET_NAME", "menus")

	cfg, err := R2ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Bucket != "menus" {
		t.Fatalf("unexpected bucket %s", cfg.Bucket)
	}
}
