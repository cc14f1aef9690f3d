package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/codyseavey/magic-collector/internal/models"
)

// Open connects to the sqlite database at path and migrates the schema.
// The returned handle is the only one; callers pass it to the stores rather
// than reaching for a package global.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The ledger relies on the cascade from decks to deck_cards.
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Set{},
		&models.Card{},
		&models.LegalityHistory{},
		&models.PriceHistory{},
		&models.CollectionEntry{},
		&models.Trade{},
		&models.Deck{},
		&models.DeckCard{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.Println("Database connected and migrated")
	return db, nil
}
