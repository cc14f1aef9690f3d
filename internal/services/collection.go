package services

import (
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codyseavey/magic-collector/internal/models"
)

// CollectionLedger tracks owned quantities per (card, finish) pair. The
// invariant it maintains: at most one row per pair, and never a row with
// quantity zero.
type CollectionLedger struct {
	db *gorm.DB
}

func NewCollectionLedger(db *gorm.DB) *CollectionLedger {
	return &CollectionLedger{db: db}
}

// WithTx returns a ledger bound to an open transaction, so the trade ledger
// can drive collection mutations inside its own atomic unit.
func (l *CollectionLedger) WithTx(tx *gorm.DB) *CollectionLedger {
	return &CollectionLedger{db: tx}
}

// Adjust adds delta to the owned quantity, creating the entry when absent.
func (l *CollectionLedger) Adjust(cardID string, delta int, isFoil bool) error {
	var entry models.CollectionEntry
	err := l.db.First(&entry, "card_id = ? AND is_foil = ?", cardID, isFoil).Error
	switch {
	case err == nil:
		entry.Quantity += delta
		entry.UpdatedAt = time.Now()
		return l.db.Save(&entry).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry = models.CollectionEntry{
			CardID:    cardID,
			IsFoil:    isFoil,
			Quantity:  delta,
			AddedAt:   time.Now(),
			UpdatedAt: time.Now(),
		}
		return l.db.Create(&entry).Error
	default:
		return err
	}
}

// SetExact sets the owned quantity outright. A quantity of zero or less
// deletes the entry; deleting an absent entry is a no-op. Returns the
// quantity now stored.
func (l *CollectionLedger) SetExact(cardID string, quantity int, isFoil bool) (int, error) {
	if quantity <= 0 {
		err := l.db.Where("card_id = ? AND is_foil = ?", cardID, isFoil).
			Delete(&models.CollectionEntry{}).Error
		return 0, err
	}

	entry := models.CollectionEntry{
		CardID:    cardID,
		IsFoil:    isFoil,
		Quantity:  quantity,
		AddedAt:   time.Now(),
		UpdatedAt: time.Now(),
	}
	err := l.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "card_id"}, {Name: "is_foil"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return 0, err
	}
	return quantity, nil
}

// QuantityOf reports the owned quantity for one finish, zero when absent.
func (l *CollectionLedger) QuantityOf(cardID string, isFoil bool) (int, error) {
	var entry models.CollectionEntry
	err := l.db.First(&entry, "card_id = ? AND is_foil = ?", cardID, isFoil).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return entry.Quantity, nil
}

// Totals reports both finishes at once for display.
func (l *CollectionLedger) Totals(cardID string) (nonFoil, foil int, err error) {
	var entries []models.CollectionEntry
	if err := l.db.Where("card_id = ?", cardID).Find(&entries).Error; err != nil {
		return 0, 0, err
	}
	for _, e := range entries {
		if e.IsFoil {
			foil = e.Quantity
		} else {
			nonFoil = e.Quantity
		}
	}
	return nonFoil, foil, nil
}

// QuantityByName sums owned copies across every printing and finish of a
// card name. The deck view uses this to show what a deck still needs.
func (l *CollectionLedger) QuantityByName(name string) (int, error) {
	var total int64
	err := l.db.Model(&models.CollectionEntry{}).
		Joins("JOIN cards ON cards.id = user_collection.card_id").
		Where("cards.name = ?", name).
		Select("COALESCE(SUM(user_collection.quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

// Clear removes every collection entry and reports how many were removed.
func (l *CollectionLedger) Clear() (int64, error) {
	result := l.db.Where("1 = 1").Delete(&models.CollectionEntry{})
	return result.RowsAffected, result.Error
}

// List returns the collection joined with card rows, most recently updated
// first, with the finish-appropriate unit price pulled from each card's
// price blob (foil entries prefer usd_foil and fall back to usd).
func (l *CollectionLedger) List() (*models.CollectionView, error) {
	var entries []models.CollectionEntry
	if err := l.db.Order("updated_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}

	view := &models.CollectionView{Entries: make([]models.CollectionCard, 0, len(entries))}
	for _, entry := range entries {
		var card models.Card
		if err := l.db.First(&card, "id = ?", entry.CardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}

		row := models.CollectionCard{
			Card:      card,
			Quantity:  entry.Quantity,
			IsFoil:    entry.IsFoil,
			AddedAt:   entry.AddedAt.Format(time.RFC3339),
			UpdatedAt: entry.UpdatedAt.Format(time.RFC3339),
		}
		if price, ok := cardUnitPrice(card.Prices, entry.IsFoil); ok {
			total := price * float64(entry.Quantity)
			row.UnitPrice = &price
			row.TotalValue = &total
			view.TotalValue += total
		}
		view.Entries = append(view.Entries, row)
	}
	return view, nil
}

// cardUnitPrice extracts the USD price for the given finish from a card's
// price blob.
func cardUnitPrice(prices models.PriceMap, isFoil bool) (float64, bool) {
	lookup := func(kind string) (float64, bool) {
		v, ok := prices[kind]
		if !ok || v == nil {
			return 0, false
		}
		f, err := strconv.ParseFloat(*v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}

	if isFoil {
		if p, ok := lookup("usd_foil"); ok {
			return p, true
		}
	}
	return lookup("usd")
}
