package models

import (
	"time"
)

// Deck is a named deck list. Cards are attached by name, not card id, so a
// deck tolerates reprints of the same card across sets.
type Deck struct {
	ID          uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string     `json:"name" gorm:"not null"`
	Description string     `json:"description"`
	Format      string     `json:"format"`
	Cards       []DeckCard `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// DeckCard is one line of a deck list.
type DeckCard struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	DeckID      uint      `json:"deck_id" gorm:"index;not null"`
	CardName    string    `json:"card_name" gorm:"not null"`
	Quantity    int       `json:"quantity" gorm:"not null;default:1"`
	IsSideboard bool      `json:"is_sideboard"`
	CreatedAt   time.Time `json:"created_at"`
}

// DeckLine is a parsed decklist line.
type DeckLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// DeckCardView is a deck line annotated with how many copies the collection
// holds across all printings and finishes of that name.
type DeckCardView struct {
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	InCollection int    `json:"in_collection"`
}

// DeckView is the full single-deck payload.
type DeckView struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Format      string         `json:"format"`
	MainDeck    []DeckCardView `json:"main_deck"`
	Sideboard   []DeckCardView `json:"sideboard"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// SaveDeckRequest creates or updates a deck from freeform decklist text.
type SaveDeckRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	Format        string `json:"format"`
	MainDeckText  string `json:"main_deck_text"`
	SideboardText string `json:"sideboard_text"`
}
