package main

import (
	"flag"
	"log"
	"os"

	"menumaker/internal/layout"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

func main() {
	_ = godotenv.Load()

	itemsPath := flag.String("items", "", "menu items JSON file (array or {\"items\": [...]})")
	pageSize := flag.String("page-size", envOr("DEFAULT_PAGE_SIZE", layout.DefaultPageSize), "page size id")
	layoutID := flag.String("layout", envOr("DEFAULT_LAYOUT", layout.DefaultLayout), "layout id")
	decisionsPath := flag.String("decisions", "", "optional pricing decisions JSON file")
	lang := flag.String("lang", "en-US", "locale for prices")
	flag.Parse()

	if *itemsPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	items, err := loadItems(*itemsPath)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	decisions, err := loadDecisions(*decisionsPath)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	size, l, err := layout.Resolve(*pageSize, *layoutID)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	tag, err := language.Parse(*lang)
	if err != nil {
		log.Fatalf("❌ unknown locale %q: %v", *lang, err)
	}

	render(os.Stdout, tag, items, decisions, size, l)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
