package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/codyseavey/magic-collector/internal/models"
)

const tradesPerPage = 50

// TradeLedger records buy/sell transactions and keeps the collection in
// step: a buy adds copies, a sell removes them after a sufficiency check,
// and deleting a trade applies the compensating reversal before the row
// goes away. Every operation runs resolve->check->mutate->append inside one
// transaction; interleaved sells against the same holdings serialize there.
type TradeLedger struct {
	db         *gorm.DB
	cards      *CardStore
	collection *CollectionLedger
}

func NewTradeLedger(db *gorm.DB, cards *CardStore, collection *CollectionLedger) *TradeLedger {
	return &TradeLedger{db: db, cards: cards, collection: collection}
}

// Add records a trade. Buys always succeed once the card resolves; sells
// fail with ErrInsufficientHoldings when the collection holds fewer copies
// of the requested finish than the trade wants to move, and in that case
// nothing is written.
func (t *TradeLedger) Add(req models.AddTradeRequest) (*models.Trade, string, error) {
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	if req.Direction != models.TradeBuy && req.Direction != models.TradeSell {
		return nil, "", fmt.Errorf("invalid trade direction %q", req.Direction)
	}

	card, err := t.cards.FindBySetAndNumber(req.SetCode, req.CollectorNumber)
	if err != nil {
		return nil, "", err
	}

	trade := models.Trade{
		SetCode:         req.SetCode,
		CollectorNumber: req.CollectorNumber,
		Direction:       req.Direction,
		Quantity:        req.Quantity,
		Price:           req.Price,
		TotalAmount:     req.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
		Profit:          req.Profit,
		IsFoil:          req.IsFoil,
		CreatedAt:       time.Now(),
	}
	if req.TradeDate != nil {
		trade.CreatedAt = *req.TradeDate
	}

	var message string
	err = t.db.Transaction(func(tx *gorm.DB) error {
		ledger := t.collection.WithTx(tx)

		switch req.Direction {
		case models.TradeBuy:
			if err := ledger.Adjust(card.ID, req.Quantity, req.IsFoil); err != nil {
				return err
			}
			message = fmt.Sprintf("Added %d %s cards to collection", req.Quantity, finishLabel(req.IsFoil))
		case models.TradeSell:
			held, err := ledger.QuantityOf(card.ID, req.IsFoil)
			if err != nil {
				return err
			}
			if held < req.Quantity {
				return fmt.Errorf("cannot sell %d cards, only %d %s held: %w",
					req.Quantity, held, finishLabel(req.IsFoil), ErrInsufficientHoldings)
			}
			if _, err := ledger.SetExact(card.ID, held-req.Quantity, req.IsFoil); err != nil {
				return err
			}
			message = fmt.Sprintf("Removed %d %s cards from collection", req.Quantity, finishLabel(req.IsFoil))
		}

		return tx.Create(&trade).Error
	})
	if err != nil {
		return nil, "", err
	}
	return &trade, message, nil
}

// Delete removes a trade after applying the compensating collection change:
// deleting a buy takes its copies back out (failing with
// ErrInsufficientHoldings when they have since been sold away), deleting a
// sell returns them. Deleting an unknown trade id is ErrNotFound.
func (t *TradeLedger) Delete(tradeID uint) (string, error) {
	var message string
	err := t.db.Transaction(func(tx *gorm.DB) error {
		var trade models.Trade
		if err := tx.First(&trade, tradeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("trade %d: %w", tradeID, ErrNotFound)
			}
			return err
		}

		card, err := t.cards.FindBySetAndNumber(trade.SetCode, trade.CollectorNumber)
		if err != nil {
			return err
		}

		ledger := t.collection.WithTx(tx)
		switch trade.Direction {
		case models.TradeBuy:
			held, err := ledger.QuantityOf(card.ID, trade.IsFoil)
			if err != nil {
				return err
			}
			if held < trade.Quantity {
				return fmt.Errorf("cannot delete buy trade, only %d %s held: %w",
					held, finishLabel(trade.IsFoil), ErrInsufficientHoldings)
			}
			if _, err := ledger.SetExact(card.ID, held-trade.Quantity, trade.IsFoil); err != nil {
				return err
			}
			message = fmt.Sprintf("Removed %d %s cards from collection", trade.Quantity, finishLabel(trade.IsFoil))
		case models.TradeSell:
			if err := ledger.Adjust(card.ID, trade.Quantity, trade.IsFoil); err != nil {
				return err
			}
			message = fmt.Sprintf("Added back %d %s cards to collection", trade.Quantity, finishLabel(trade.IsFoil))
		}

		return tx.Delete(&trade).Error
	})
	return message, err
}

// List returns one page of the ledger, newest first, with set and card
// names joined in, plus the all-time summary.
func (t *TradeLedger) List(page int) (*models.TradeList, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := t.db.Model(&models.Trade{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var trades []models.Trade
	err := t.db.Order("created_at DESC").
		Limit(tradesPerPage).
		Offset((page - 1) * tradesPerPage).
		Find(&trades).Error
	if err != nil {
		return nil, err
	}

	rows := make([]models.TradeRow, 0, len(trades))
	for _, trade := range trades {
		row := models.TradeRow{Trade: trade}
		if set, err := t.cards.GetSet(trade.SetCode); err == nil {
			row.SetName = set.Name
		}
		if card, err := t.cards.FindBySetAndNumber(trade.SetCode, trade.CollectorNumber); err == nil {
			row.CardName = card.Name
		}
		rows = append(rows, row)
	}

	summary, err := t.Summary()
	if err != nil {
		return nil, err
	}

	return &models.TradeList{
		Trades:      rows,
		TotalTrades: total,
		Page:        page,
		TotalPages:  int((total + tradesPerPage - 1) / tradesPerPage),
		Summary:     *summary,
	}, nil
}

// Summary totals bought/sold amounts and recorded profit across the ledger.
func (t *TradeLedger) Summary() (*models.TradeSummary, error) {
	var summary models.TradeSummary

	bought, err := sumWhere(t.db, "total_amount", "direction = ?", string(models.TradeBuy))
	if err != nil {
		return nil, err
	}
	summary.TotalBought = bought

	sold, err := sumWhere(t.db, "total_amount", "direction = ?", string(models.TradeSell))
	if err != nil {
		return nil, err
	}
	summary.TotalSold = sold

	profit, err := sumWhere(t.db, "profit", "")
	if err != nil {
		return nil, err
	}
	summary.TotalProfit = profit

	return &summary, nil
}

// DeleteAll clears the ledger without touching the collection, reporting
// how many trades were removed. This is the settings-page reset, not a
// compensated undo.
func (t *TradeLedger) DeleteAll() (int64, error) {
	result := t.db.Where("1 = 1").Delete(&models.Trade{})
	return result.RowsAffected, result.Error
}

func sumWhere(db *gorm.DB, column, cond string, args ...interface{}) (decimal.Decimal, error) {
	query := db.Model(&models.Trade{}).Select("COALESCE(SUM(" + column + "), 0)")
	if cond != "" {
		query = query.Where(cond, args...)
	}
	var raw float64
	if err := query.Scan(&raw).Error; err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(raw), nil
}

func finishLabel(isFoil bool) string {
	if isFoil {
		return "foil"
	}
	return "regular"
}
