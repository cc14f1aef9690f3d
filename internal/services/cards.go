package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codyseavey/magic-collector/internal/models"
	"github.com/codyseavey/magic-collector/internal/scryfall"
)

// lookupCacheSize bounds the (set, collector number) resolution cache. Trade
// entry hits the same few cards repeatedly, so a small cache covers it.
const lookupCacheSize = 512

// CardStore owns the relational persistence of sets, cards and their history
// tables. Card and set writes are idempotent insert-or-replace keyed on the
// catalog identifier.
type CardStore struct {
	db          *gorm.DB
	lookupCache *lru.Cache[string, string] // "set|number" -> card id
}

func NewCardStore(db *gorm.DB) *CardStore {
	cache, err := lru.New[string, string](lookupCacheSize)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &CardStore{db: db, lookupCache: cache}
}

// UpsertSet replaces the stored set matching the record's identifier.
func (s *CardStore) UpsertSet(raw scryfall.Set) error {
	set := models.Set{
		ID:            raw.ID,
		Code:          raw.Code,
		Name:          raw.Name,
		SetType:       raw.SetType,
		ReleasedAt:    raw.ReleasedAt,
		BlockCode:     raw.BlockCode,
		Block:         raw.Block,
		ParentSetCode: raw.ParentSetCode,
		CardCount:     raw.CardCount,
		PrintedSize:   raw.PrintedSize,
		Digital:       raw.Digital,
		FoilOnly:      raw.FoilOnly,
		NonfoilOnly:   raw.NonfoilOnly,
		ScryfallURI:   raw.ScryfallURI,
		URI:           raw.URI,
		IconSvgURI:    raw.IconSvgURI,
		SearchURI:     raw.SearchURI,
		CreatedAt:     time.Now(),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&set).Error
	if err != nil {
		return fmt.Errorf("failed to upsert set %s: %w", raw.Code, err)
	}
	return nil
}

// StoreCard upserts the card row and appends its legality and price history
// snapshots in one transaction, so a cancelled batch never leaves a card
// without the history rows of the ingestion that wrote it.
func (s *CardStore) StoreCard(card models.Card) error {
	now := time.Now()
	legalities := LegalityHistoryRecords(card.ID, card.Legalities, now)
	prices := PriceHistoryRecords(card.ID, card.Prices, now)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&card).Error; err != nil {
			return err
		}
		if len(legalities) > 0 {
			if err := tx.Create(&legalities).Error; err != nil {
				return err
			}
		}
		if len(prices) > 0 {
			if err := tx.Create(&prices).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store card %s: %w", card.ID, err)
	}

	s.lookupCache.Add(lookupKey(card.SetCode, card.CollectorNumber), card.ID)
	return nil
}

// FindByID fetches one card by catalog identifier.
func (s *CardStore) FindByID(id string) (*models.Card, error) {
	var card models.Card
	if err := s.db.First(&card, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

// FindBySetAndNumber resolves the (set code, collector number) join key used
// by the trade ledger.
func (s *CardStore) FindBySetAndNumber(setCode, collectorNumber string) (*models.Card, error) {
	if id, ok := s.lookupCache.Get(lookupKey(setCode, collectorNumber)); ok {
		card, err := s.FindByID(id)
		if err == nil {
			return card, nil
		}
		if !errors.Is(err, ErrCardNotFound) {
			return nil, err
		}
		// Cached id no longer resolves; fall through to the query.
	}

	var card models.Card
	err := s.db.First(&card, "set_code = ? AND collector_number = ?", setCode, collectorNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	s.lookupCache.Add(lookupKey(setCode, collectorNumber), card.ID)
	return &card, nil
}

// FindByName returns all printings matching the exact name.
func (s *CardStore) FindByName(name string) ([]models.Card, error) {
	var cards []models.Card
	if err := s.db.Where("name = ?", name).Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// MissingNames filters names down to the ones with no stored card, used by
// the deck validator.
func (s *CardStore) MissingNames(names []string) ([]string, error) {
	var missing []string
	for _, name := range names {
		var count int64
		if err := s.db.Model(&models.Card{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// OtherPrintings returns printings of the same name in other sets, newest
// set first.
func (s *CardStore) OtherPrintings(name, excludeID string) ([]models.Card, error) {
	var cards []models.Card
	err := s.db.
		Joins("LEFT JOIN sets ON sets.code = cards.set_code").
		Where("cards.name = ? AND cards.id != ?", name, excludeID).
		Order("sets.released_at DESC").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// Search runs a case-insensitive substring match over name, type line and
// oracle text (sqlite LIKE is ASCII case-insensitive), ordered by card name
// and then set release date descending.
func (s *CardStore) Search(query string, page, perPage int) (*models.CardSearchResult, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	pattern := "%" + query + "%"
	filter := "cards.name LIKE ? OR cards.type_line LIKE ? OR cards.oracle_text LIKE ?"

	var total int64
	err := s.db.Model(&models.Card{}).
		Where(filter, pattern, pattern, pattern).
		Count(&total).Error
	if err != nil {
		return nil, err
	}

	var cards []models.Card
	err = s.db.
		Joins("LEFT JOIN sets ON sets.code = cards.set_code").
		Where(filter, pattern, pattern, pattern).
		Order("cards.name, sets.released_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&cards).Error
	if err != nil {
		return nil, err
	}

	return &models.CardSearchResult{
		Cards:      cards,
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
		HasMore:    int64(page*perPage) < total,
	}, nil
}

// ListSetCards returns a set's cards ordered by collector number: numeric
// prefixes compare as integers, numbers without a leading digit sort after
// all numeric ones, and the full string breaks ties lexicographically.
func (s *CardStore) ListSetCards(setCode string) ([]models.Card, error) {
	var cards []models.Card
	if err := s.db.Where("set_code = ?", setCode).Find(&cards).Error; err != nil {
		return nil, err
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return compareCollectorNumbers(cards[i].CollectorNumber, cards[j].CollectorNumber)
	})
	return cards, nil
}

// ListSets returns all sets, newest release first.
func (s *CardStore) ListSets() ([]models.Set, error) {
	var sets []models.Set
	if err := s.db.Order("released_at DESC").Find(&sets).Error; err != nil {
		return nil, err
	}
	return sets, nil
}

// GetSet fetches one set by short code.
func (s *CardStore) GetSet(code string) (*models.Set, error) {
	var set models.Set
	if err := s.db.First(&set, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &set, nil
}

// SetInfo returns the trade-form helper payload for a set: name, printed
// card count and the highest numeric collector number stored so far.
func (s *CardStore) SetInfo(code string) (*models.SetInfo, error) {
	set, err := s.GetSet(code)
	if err != nil {
		return nil, err
	}

	var numbers []string
	err = s.db.Model(&models.Card{}).
		Where("set_code = ?", code).
		Pluck("collector_number", &numbers).Error
	if err != nil {
		return nil, err
	}

	max := 0
	for _, n := range numbers {
		if prefix, ok := numericPrefix(n); ok && prefix > max {
			max = prefix
		}
	}

	return &models.SetInfo{
		Name:               set.Name,
		CardCount:          set.CardCount,
		MaxCollectorNumber: max,
	}, nil
}

// UpdatePricesAndLegalities refreshes just the two volatile blobs on a stored
// card, leaving every other field untouched. The collection price refresh
// uses this instead of a full upsert.
func (s *CardStore) UpdatePricesAndLegalities(cardID string, prices models.PriceMap, legalities models.StringMap) error {
	result := s.db.Model(&models.Card{}).
		Where("id = ?", cardID).
		Updates(map[string]interface{}{
			"prices":     prices,
			"legalities": legalities,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

// Stats reports row counts across the store.
func (s *CardStore) Stats() (*models.DatabaseStats, error) {
	var stats models.DatabaseStats
	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Card{}, &stats.TotalCards},
		{&models.Set{}, &stats.TotalSets},
		{&models.CollectionEntry{}, &stats.CollectionCards},
		{&models.Trade{}, &stats.TotalTrades},
		{&models.Deck{}, &stats.TotalDecks},
	}
	for _, c := range counts {
		if err := s.db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return &stats, nil
}

func lookupKey(setCode, collectorNumber string) string {
	return setCode + "|" + collectorNumber
}

// compareCollectorNumbers orders "2" < "12" < "12a" < "12b" < "TOK".
func compareCollectorNumbers(a, b string) bool {
	pa, aNumeric := numericPrefix(a)
	pb, bNumeric := numericPrefix(b)

	switch {
	case aNumeric && !bNumeric:
		return true
	case !aNumeric && bNumeric:
		return false
	case aNumeric && bNumeric && pa != pb:
		return pa < pb
	default:
		return a < b
	}
}

// numericPrefix parses the leading digit run of a collector number. The
// second return is false when the number has no leading digits at all.
func numericPrefix(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// Digit runs long enough to overflow int do not occur in catalog
		// data; treat them as non-numeric rather than failing the sort.
		return 0, false
	}
	return n, true
}
