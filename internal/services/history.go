package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codyseavey/magic-collector/internal/models"
)

// LegalityHistoryRecords emits one append-only row per (format, status) pair
// in the card's legality map. No dedup happens here: every ingestion records
// a complete snapshot. A nil map emits nothing.
func LegalityHistoryRecords(cardID string, legalities map[string]string, at time.Time) []models.LegalityHistory {
	if len(legalities) == 0 {
		return nil
	}
	records := make([]models.LegalityHistory, 0, len(legalities))
	for format, status := range legalities {
		records = append(records, models.LegalityHistory{
			CardID:     cardID,
			Format:     format,
			Status:     status,
			RecordedAt: at,
		})
	}
	return records
}

// PriceHistoryRecords emits one append-only row per non-null price kind.
// Null-valued kinds (the catalog has no price for that finish) are skipped.
// Values that parse as decimals are stored in canonical decimal form;
// anything else is kept verbatim.
func PriceHistoryRecords(cardID string, prices map[string]*string, at time.Time) []models.PriceHistory {
	if len(prices) == 0 {
		return nil
	}
	records := make([]models.PriceHistory, 0, len(prices))
	for kind, value := range prices {
		if value == nil {
			continue
		}
		rendered := *value
		if d, err := decimal.NewFromString(rendered); err == nil {
			rendered = d.String()
		}
		records = append(records, models.PriceHistory{
			CardID:     cardID,
			PriceType:  kind,
			PriceValue: rendered,
			Currency:   InferCurrency(kind),
			RecordedAt: at,
		})
	}
	return records
}

// InferCurrency maps a price kind to its currency by case-insensitive
// substring match: usd* is USD, eur* is EUR, tix* is TIX, anything else is
// Unknown. This tracks the current catalog vocabulary; a future kind that
// merely contains one of these substrings would be misclassified.
func InferCurrency(priceType string) models.Currency {
	lower := strings.ToLower(priceType)
	switch {
	case strings.Contains(lower, "usd"):
		return models.CurrencyUSD
	case strings.Contains(lower, "eur"):
		return models.CurrencyEUR
	case strings.Contains(lower, "tix"):
		return models.CurrencyTIX
	default:
		return models.CurrencyUnknown
	}
}
