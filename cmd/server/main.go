package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/codyseavey/magic-collector/internal/api"
	"github.com/codyseavey/magic-collector/internal/database"
	"github.com/codyseavey/magic-collector/internal/metrics"
	"github.com/codyseavey/magic-collector/internal/scryfall"
	"github.com/codyseavey/magic-collector/internal/services"
)

const metricsRefreshInterval = time.Minute

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./magic_collector.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	var catalogClient *scryfall.Client
	if baseURL := os.Getenv("SCRYFALL_BASE_URL"); baseURL != "" {
		catalogClient = scryfall.NewClientWithBaseURL(baseURL)
	} else {
		catalogClient = scryfall.NewClient()
	}

	cardStore := services.NewCardStore(db)
	collection := services.NewCollectionLedger(db)
	trades := services.NewTradeLedger(db, cardStore, collection)
	decks := services.NewDeckService(db, cardStore, collection)
	ingestor := services.NewIngestor(catalogClient, cardStore, collection)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Keep the collection gauges current for scrapes
	go func() {
		ticker := time.NewTicker(metricsRefreshInterval)
		defer ticker.Stop()
		metrics.UpdateCollectionGauges(db)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.UpdateCollectionGauges(db)
			}
		}
	}()

	router := api.SetupRouter(cardStore, collection, trades, decks, ingestor)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
