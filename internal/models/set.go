package models

import (
	"time"
)

// Set is one catalog set. Rows are replaced wholesale whenever a sets sync
// runs; nothing mutates individual fields.
type Set struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	Code          string    `json:"code" gorm:"uniqueIndex;not null"`
	Name          string    `json:"name"`
	SetType       string    `json:"set_type"`
	ReleasedAt    string    `json:"released_at"`
	BlockCode     string    `json:"block_code"`
	Block         string    `json:"block"`
	ParentSetCode string    `json:"parent_set_code"`
	CardCount     int       `json:"card_count"`
	PrintedSize   int       `json:"printed_size"`
	Digital       bool      `json:"digital"`
	FoilOnly      bool      `json:"foil_only"`
	NonfoilOnly   bool      `json:"nonfoil_only"`
	ScryfallURI   string    `json:"scryfall_uri"`
	URI           string    `json:"uri"`
	IconSvgURI    string    `json:"icon_svg_uri"`
	SearchURI     string    `json:"search_uri"`
	CreatedAt     time.Time `json:"created_at"`
}

// SetInfo is the trade-form helper payload: set metadata plus the highest
// collector number currently stored for the set.
type SetInfo struct {
	Name               string `json:"name"`
	CardCount          int    `json:"card_count"`
	MaxCollectorNumber int    `json:"max_collector_number"`
}
