package scryfall

// Set is a raw catalog set record.
type Set struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	SetType       string `json:"set_type"`
	ReleasedAt    string `json:"released_at"`
	BlockCode     string `json:"block_code"`
	Block         string `json:"block"`
	ParentSetCode string `json:"parent_set_code"`
	CardCount     int    `json:"card_count"`
	PrintedSize   int    `json:"printed_size"`
	Digital       bool   `json:"digital"`
	FoilOnly      bool   `json:"foil_only"`
	NonfoilOnly   bool   `json:"nonfoil_only"`
	ScryfallURI   string `json:"scryfall_uri"`
	URI           string `json:"uri"`
	IconSvgURI    string `json:"icon_svg_uri"`
	SearchURI     string `json:"search_uri"`
}

// Card is a raw catalog card record, the input shape of the normalizer.
// Optional fields simply decode to their zero values when absent.
type Card struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	ManaCost        string             `json:"mana_cost"`
	CMC             float64            `json:"cmc"`
	TypeLine        string             `json:"type_line"`
	OracleText      string             `json:"oracle_text"`
	Power           string             `json:"power"`
	Toughness       string             `json:"toughness"`
	Colors          []string           `json:"colors"`
	ColorIdentity   []string           `json:"color_identity"`
	Legalities      map[string]string  `json:"legalities"`
	Games           []string           `json:"games"`
	Finishes        []string           `json:"finishes"`
	Reserved        bool               `json:"reserved"`
	Foil            bool               `json:"foil"`
	Nonfoil         bool               `json:"nonfoil"`
	Oversized       bool               `json:"oversized"`
	Promo           bool               `json:"promo"`
	Reprint         bool               `json:"reprint"`
	Variation       bool               `json:"variation"`
	SetID           string             `json:"set_id"`
	Set             string             `json:"set"`
	SetName         string             `json:"set_name"`
	CollectorNumber string             `json:"collector_number"`
	Rarity          string             `json:"rarity"`
	Artist          string             `json:"artist"`
	BorderColor     string             `json:"border_color"`
	Frame           string             `json:"frame"`
	FullArt         bool               `json:"full_art"`
	Textless        bool               `json:"textless"`
	Booster         bool               `json:"booster"`
	StorySpotlight  bool               `json:"story_spotlight"`
	EdhrecRank      int                `json:"edhrec_rank"`
	PennyRank       int                `json:"penny_rank"`
	Prices          map[string]*string `json:"prices"`
	RelatedURIs     map[string]string  `json:"related_uris"`
	PurchaseURIs    map[string]string  `json:"purchase_uris"`
	ImageURIs       map[string]string  `json:"image_uris"`
	CardFaces       []CardFace         `json:"card_faces"`
}

// CardFace is one face of a multi-faced card.
type CardFace struct {
	Name       string            `json:"name"`
	ManaCost   string            `json:"mana_cost"`
	TypeLine   string            `json:"type_line"`
	OracleText string            `json:"oracle_text"`
	ImageURIs  map[string]string `json:"image_uris"`
}
