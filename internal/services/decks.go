package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/codyseavey/magic-collector/internal/models"
)

// DeckService parses decklist text, validates every card name against the
// store, and persists decks all-or-nothing: one unknown name aborts the
// whole save and a new deck is never created.
type DeckService struct {
	db         *gorm.DB
	cards      *CardStore
	collection *CollectionLedger
}

func NewDeckService(db *gorm.DB, cards *CardStore, collection *CollectionLedger) *DeckService {
	return &DeckService{db: db, cards: cards, collection: collection}
}

// ParseDecklist splits freeform text into (quantity, name) lines. A line
// whose first whitespace-delimited token is a pure unsigned integer uses it
// as the quantity; otherwise the whole line is the name with quantity 1.
// Blank lines are skipped.
func ParseDecklist(text string) []models.DeckLine {
	var lines []models.DeckLine
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.SplitN(line, " ", 2)
		if len(fields) == 2 && allDigits(fields[0]) {
			if qty, err := strconv.Atoi(fields[0]); err == nil {
				name := strings.TrimSpace(fields[1])
				if name != "" {
					lines = append(lines, models.DeckLine{Name: name, Quantity: qty})
					continue
				}
			}
		}
		lines = append(lines, models.DeckLine{Name: line, Quantity: 1})
	}
	return lines
}

// allDigits reports whether s is a pure unsigned decimal number. A signed
// token like "+3" or "-1" is part of a card name, not a quantity.
func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Save creates (deckID == 0) or updates a deck from the request's decklist
// text. Updates replace every existing line: delete-then-reinsert, never a
// merge. Validation failures list every missing name in the error.
func (s *DeckService) Save(deckID uint, req models.SaveDeckRequest) (uint, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return 0, fmt.Errorf("deck name is required")
	}

	mainDeck := ParseDecklist(req.MainDeckText)
	sideboard := ParseDecklist(req.SideboardText)

	if err := s.validateNames(mainDeck, sideboard); err != nil {
		return 0, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if deckID == 0 {
			deck := models.Deck{
				Name:        name,
				Description: strings.TrimSpace(req.Description),
				Format:      strings.TrimSpace(req.Format),
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}
			if err := tx.Create(&deck).Error; err != nil {
				return err
			}
			deckID = deck.ID
		} else {
			result := tx.Model(&models.Deck{}).Where("id = ?", deckID).Updates(map[string]interface{}{
				"name":        name,
				"description": strings.TrimSpace(req.Description),
				"format":      strings.TrimSpace(req.Format),
				"updated_at":  time.Now(),
			})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("deck %d: %w", deckID, ErrNotFound)
			}
			if err := tx.Where("deck_id = ?", deckID).Delete(&models.DeckCard{}).Error; err != nil {
				return err
			}
		}

		insert := func(lines []models.DeckLine, sideboard bool) error {
			for _, line := range lines {
				dc := models.DeckCard{
					DeckID:      deckID,
					CardName:    line.Name,
					Quantity:    line.Quantity,
					IsSideboard: sideboard,
					CreatedAt:   time.Now(),
				}
				if err := tx.Create(&dc).Error; err != nil {
					return err
				}
			}
			return nil
		}
		if err := insert(mainDeck, false); err != nil {
			return err
		}
		return insert(sideboard, true)
	})
	if err != nil {
		return 0, err
	}
	return deckID, nil
}

// validateNames checks the set union of all names against the store.
func (s *DeckService) validateNames(mainDeck, sideboard []models.DeckLine) error {
	seen := make(map[string]struct{})
	var names []string
	for _, line := range append(append([]models.DeckLine{}, mainDeck...), sideboard...) {
		if _, ok := seen[line.Name]; !ok {
			seen[line.Name] = struct{}{}
			names = append(names, line.Name)
		}
	}

	missing, err := s.cards.MissingNames(names)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("cards not found in database: %s: %w",
			strings.Join(missing, ", "), ErrCardNotFound)
	}
	return nil
}

// Get returns one deck with owned-quantity annotations per line.
func (s *DeckService) Get(deckID uint) (*models.DeckView, error) {
	var deck models.Deck
	if err := s.db.First(&deck, deckID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("deck %d: %w", deckID, ErrNotFound)
		}
		return nil, err
	}

	view := &models.DeckView{
		ID:          deck.ID,
		Name:        deck.Name,
		Description: deck.Description,
		Format:      deck.Format,
		CreatedAt:   deck.CreatedAt,
		UpdatedAt:   deck.UpdatedAt,
	}

	var cards []models.DeckCard
	err := s.db.Where("deck_id = ?", deckID).Order("card_name").Find(&cards).Error
	if err != nil {
		return nil, err
	}

	for _, dc := range cards {
		owned, err := s.collection.QuantityByName(dc.CardName)
		if err != nil {
			return nil, err
		}
		line := models.DeckCardView{
			Name:         dc.CardName,
			Quantity:     dc.Quantity,
			InCollection: owned,
		}
		if dc.IsSideboard {
			view.Sideboard = append(view.Sideboard, line)
		} else {
			view.MainDeck = append(view.MainDeck, line)
		}
	}
	return view, nil
}

// List returns every deck with its lines, most recently updated first.
func (s *DeckService) List() ([]models.DeckView, error) {
	var decks []models.Deck
	if err := s.db.Order("updated_at DESC").Find(&decks).Error; err != nil {
		return nil, err
	}

	views := make([]models.DeckView, 0, len(decks))
	for _, deck := range decks {
		view, err := s.Get(deck.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// Delete removes a deck; the schema cascade removes its lines.
func (s *DeckService) Delete(deckID uint) error {
	result := s.db.Delete(&models.Deck{}, deckID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("deck %d: %w", deckID, ErrNotFound)
	}
	return nil
}

// DeleteAll removes every deck and reports the count.
func (s *DeckService) DeleteAll() (int64, error) {
	result := s.db.Where("1 = 1").Delete(&models.Deck{})
	return result.RowsAffected, result.Error
}
