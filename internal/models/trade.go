package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeDirection is the side of a trade.
type TradeDirection string

const (
	TradeBuy  TradeDirection = "Buy"
	TradeSell TradeDirection = "Sell"
)

// Trade is one immutable buy/sell ledger entry. Trades reference cards by
// (set_code, collector_number), not by card id. TotalAmount is always
// quantity x price; Profit is caller-supplied and stored verbatim.
type Trade struct {
	ID              uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	SetCode         string          `json:"set_code" gorm:"index"`
	CollectorNumber string          `json:"collector_number"`
	Direction       TradeDirection  `json:"direction" gorm:"check:direction IN ('Buy','Sell')"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price" gorm:"type:numeric"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:numeric"`
	Profit          decimal.Decimal `json:"profit" gorm:"type:numeric"`
	IsFoil          bool            `json:"is_foil"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (Trade) TableName() string {
	return "trade_data"
}

// TradeRow is a trade joined with the set and card names for display.
type TradeRow struct {
	Trade
	SetName  string `json:"set_name"`
	CardName string `json:"card_name"`
}

// TradeSummary aggregates the whole ledger.
type TradeSummary struct {
	TotalBought decimal.Decimal `json:"total_bought"`
	TotalSold   decimal.Decimal `json:"total_sold"`
	TotalProfit decimal.Decimal `json:"total_profit"`
}

// TradeList is one page of the trade ledger plus its summary.
type TradeList struct {
	Trades      []TradeRow   `json:"trades"`
	TotalTrades int64        `json:"total_trades"`
	Page        int          `json:"page"`
	TotalPages  int          `json:"total_pages"`
	Summary     TradeSummary `json:"summary"`
}

// AddTradeRequest records a new trade. TradeDate overrides the recorded
// timestamp when set (RFC 3339); otherwise the current time is used.
type AddTradeRequest struct {
	SetCode         string          `json:"set_code" binding:"required"`
	CollectorNumber string          `json:"collector_number" binding:"required"`
	Direction       TradeDirection  `json:"direction" binding:"required"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	Profit          decimal.Decimal `json:"profit"`
	IsFoil          bool            `json:"is_foil"`
	TradeDate       *time.Time      `json:"trade_date"`
}
