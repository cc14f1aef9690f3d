package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/codyseavey/magic-collector/internal/database"
	"github.com/codyseavey/magic-collector/internal/scryfall"
	"github.com/codyseavey/magic-collector/internal/services"
)

// Imports the full Scryfall card catalog into a local database. Intended
// for first-time setup; the server's catalog endpoints handle incremental
// updates after that.
func main() {
	_ = godotenv.Load()

	defaultPath := os.Getenv("DB_PATH")
	if defaultPath == "" {
		defaultPath = "./magic_collector.db"
	}

	dbPath := flag.String("db", defaultPath, "path to the SQLite database file")
	skipSets := flag.Bool("skip-sets", false, "skip the set catalog sync before the card import")
	flag.Parse()

	db, err := database.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	var client *scryfall.Client
	if baseURL := os.Getenv("SCRYFALL_BASE_URL"); baseURL != "" {
		client = scryfall.NewClientWithBaseURL(baseURL)
	} else {
		client = scryfall.NewClient()
	}

	store := services.NewCardStore(db)
	collection := services.NewCollectionLedger(db)
	ingestor := services.NewIngestor(client, store, collection)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !*skipSets {
		count, err := ingestor.SyncSets(ctx)
		if err != nil {
			log.Fatalf("Set sync failed: %v", err)
		}
		log.Printf("Synced %d sets", count)
	}

	result, err := ingestor.BulkImport(ctx)
	if err != nil {
		log.Fatalf("Bulk import failed: %v", err)
	}
	log.Printf("Bulk import complete: %d stored, %d skipped, %d failed",
		result.Stored, result.Skipped, result.Failed)
}
