package models

import (
	"time"
)

// Card is the flat relational form of one catalog card. The row is keyed by
// the catalog identifier and replaced in full on every ingestion; nested
// catalog structures (legalities, prices, URI bundles) live in opaque JSON
// columns, and multi-faced cards carry composite fields plus the FaceSummary
// encoding produced by the normalizer.
//
// (SetCode, CollectorNumber) is effectively unique and is how trades reference
// cards, so both are indexed even though neither is the primary key.
type Card struct {
	ID              string      `json:"id" gorm:"primaryKey"`
	Name            string      `json:"name" gorm:"index"`
	ManaCost        string      `json:"mana_cost"`
	CMC             float64     `json:"cmc"`
	TypeLine        string      `json:"type_line"`
	OracleText      string      `json:"oracle_text"`
	Power           string      `json:"power"`
	Toughness       string      `json:"toughness"`
	Colors          StringSlice `json:"colors" gorm:"type:text"`
	ColorIdentity   StringSlice `json:"color_identity" gorm:"type:text"`
	Legalities      StringMap   `json:"legalities" gorm:"type:text"`
	Games           StringSlice `json:"games" gorm:"type:text"`
	Finishes        StringSlice `json:"finishes" gorm:"type:text"`
	Reserved        bool        `json:"reserved"`
	Foil            bool        `json:"foil"`
	Nonfoil         bool        `json:"nonfoil"`
	Oversized       bool        `json:"oversized"`
	Promo           bool        `json:"promo"`
	Reprint         bool        `json:"reprint"`
	Variation       bool        `json:"variation"`
	SetID           string      `json:"set_id"`
	SetCode         string      `json:"set_code" gorm:"index:idx_cards_set_number"`
	SetName         string      `json:"set_name"`
	CollectorNumber string      `json:"collector_number" gorm:"index:idx_cards_set_number"`
	Rarity          string      `json:"rarity"`
	Artist          string      `json:"artist"`
	BorderColor     string      `json:"border_color"`
	Frame           string      `json:"frame"`
	FullArt         bool        `json:"full_art"`
	Textless        bool        `json:"textless"`
	Booster         bool        `json:"booster"`
	StorySpotlight  bool        `json:"story_spotlight"`
	EdhrecRank      int         `json:"edhrec_rank"`
	PennyRank       int         `json:"penny_rank"`
	Prices          PriceMap    `json:"prices" gorm:"type:text"`
	RelatedURIs     StringMap   `json:"related_uris" gorm:"type:text"`
	PurchaseURIs    StringMap   `json:"purchase_uris" gorm:"type:text"`
	ImageURIs       StringMap   `json:"image_uris" gorm:"type:text"`
	FaceSummary     string      `json:"face_summary"`
	CreatedAt       time.Time   `json:"created_at"`
}

// FaceInfo is one face recovered from a Card's FaceSummary encoding.
type FaceInfo struct {
	Name     string `json:"name"`
	TypeLine string `json:"type_line"`
	ImageURL string `json:"image_url,omitempty"`
}

// CardSearchResult is a page of substring-search hits.
type CardSearchResult struct {
	Cards      []Card `json:"cards"`
	TotalCount int64  `json:"total_count"`
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	HasMore    bool   `json:"has_more"`
}

// CardDetail is the full card view: decoded faces, other printings of the
// same name, and owned quantities for both finishes.
type CardDetail struct {
	Card           Card       `json:"card"`
	Faces          []FaceInfo `json:"faces,omitempty"`
	OtherPrintings []Card     `json:"other_printings"`
	NonFoilQty     int        `json:"non_foil_qty"`
	FoilQty        int        `json:"foil_qty"`
}

// DatabaseStats mirrors the settings-page counters.
type DatabaseStats struct {
	TotalCards      int64 `json:"total_cards"`
	TotalSets       int64 `json:"total_sets"`
	CollectionCards int64 `json:"collection_cards"`
	TotalTrades     int64 `json:"total_trades"`
	TotalDecks      int64 `json:"total_decks"`
}
