package models

import (
	"time"
)

// CollectionEntry tracks the owned quantity of one (card, finish) pair.
// At most one row exists per pair and a row never holds quantity zero:
// setting a quantity to zero deletes the row instead.
type CollectionEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CardID    string    `json:"card_id" gorm:"not null;uniqueIndex:idx_collection_card_foil"`
	IsFoil    bool      `json:"is_foil" gorm:"uniqueIndex:idx_collection_card_foil"`
	Quantity  int       `json:"quantity" gorm:"default:1"`
	AddedAt   time.Time `json:"added_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CollectionEntry) TableName() string {
	return "user_collection"
}

// CollectionCard is a collection entry joined with its card, plus the
// finish-appropriate unit price extracted from the card's price blob.
type CollectionCard struct {
	Card       Card     `json:"card"`
	Quantity   int      `json:"quantity"`
	IsFoil     bool     `json:"is_foil"`
	AddedAt    string   `json:"added_at"`
	UpdatedAt  string   `json:"updated_at"`
	UnitPrice  *float64 `json:"unit_price"`
	TotalValue *float64 `json:"total_value"`
}

// CollectionView is the full collection page payload.
type CollectionView struct {
	Entries    []CollectionCard `json:"entries"`
	TotalValue float64          `json:"total_value"`
}

// AddToCollectionRequest adds copies of a card to the collection.
type AddToCollectionRequest struct {
	CardID   string `json:"card_id" binding:"required"`
	Quantity int    `json:"quantity"`
	IsFoil   bool   `json:"is_foil"`
}

// SetQuantityRequest sets the exact owned quantity; zero or negative removes
// the entry.
type SetQuantityRequest struct {
	CardID   string `json:"card_id" binding:"required"`
	Quantity int    `json:"quantity"`
	IsFoil   bool   `json:"is_foil"`
}
