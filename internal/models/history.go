package models

import (
	"time"
)

// LegalityHistory is one observed (format, status) pair for a card. Rows are
// append-only: every ingestion writes a full snapshot, duplicates included.
type LegalityHistory struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CardID     string    `json:"card_id" gorm:"index;not null"`
	Format     string    `json:"format"`
	Status     string    `json:"status"`
	RecordedAt time.Time `json:"recorded_at"`
}

func (LegalityHistory) TableName() string {
	return "card_legalities_history"
}

// PriceHistory is one observed price for a card. Null-valued price kinds are
// never recorded. Append-only, same snapshot policy as LegalityHistory.
type PriceHistory struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CardID     string    `json:"card_id" gorm:"index;not null"`
	PriceType  string    `json:"price_type"`
	PriceValue string    `json:"price_value"`
	Currency   Currency  `json:"currency"`
	RecordedAt time.Time `json:"recorded_at"`
}

func (PriceHistory) TableName() string {
	return "card_prices_history"
}

// Currency is the inferred currency of a price kind.
type Currency string

const (
	CurrencyUSD     Currency = "USD"
	CurrencyEUR     Currency = "EUR"
	CurrencyTIX     Currency = "TIX"
	CurrencyUnknown Currency = "Unknown"
)
