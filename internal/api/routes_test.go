package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/magic-collector/internal/database"
	"github.com/codyseavey/magic-collector/internal/models"
	"github.com/codyseavey/magic-collector/internal/scryfall"
	"github.com/codyseavey/magic-collector/internal/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	cards := services.NewCardStore(db)
	collection := services.NewCollectionLedger(db)
	trades := services.NewTradeLedger(db, cards, collection)
	decks := services.NewDeckService(db, cards, collection)
	ingestor := services.NewIngestor(scryfall.NewClient(), cards, collection)

	if err := cards.StoreCard(models.Card{
		ID:              "card-1",
		Name:            "Shock",
		TypeLine:        "Instant",
		SetCode:         "m19",
		CollectorNumber: "156",
		CreatedAt:       time.Now(),
	}); err != nil {
		t.Fatalf("Failed to seed card: %v", err)
	}

	return SetupRouter(cards, collection, trades, decks, ingestor)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

func TestCardLookup(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/cards/lookup/m19/156", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool `json:"success"`
		Card    struct {
			Name string `json:"name"`
		} `json:"card"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Success || resp.Card.Name != "Shock" {
		t.Errorf("Unexpected lookup response: %s", w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/cards/lookup/m19/999", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown card, got %d", w.Code)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/api/cards/search", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without q parameter, got %d", w.Code)
	}
}

func TestTradeFlowOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	buy := map[string]interface{}{
		"set_code":         "m19",
		"collector_number": "156",
		"direction":        "Buy",
		"quantity":         2,
		"price":            "0.25",
	}
	w := doJSON(t, router, http.MethodPost, "/api/trades", buy)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on buy, got %d: %s", w.Code, w.Body.String())
	}

	// Overselling is a visible conflict, not a silent clamp.
	sell := map[string]interface{}{
		"set_code":         "m19",
		"collector_number": "156",
		"direction":        "Sell",
		"quantity":         5,
		"price":            "0.50",
	}
	w = doJSON(t, router, http.MethodPost, "/api/trades", sell)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 on oversell, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/collection", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on collection, got %d", w.Code)
	}
	var view models.CollectionView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("Failed to decode collection: %v", err)
	}
	if len(view.Entries) != 1 || view.Entries[0].Quantity != 2 {
		t.Errorf("Expected 2 copies held after rejected sell, got %+v", view.Entries)
	}

	w = doJSON(t, router, http.MethodDelete, "/api/trades/999", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown trade, got %d", w.Code)
	}
}

func TestCollectionAddValidation(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/collection/add", map[string]interface{}{
		"card_id":  "card-1",
		"quantity": 0,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for zero quantity, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/collection/add", map[string]interface{}{
		"card_id":  "missing",
		"quantity": 1,
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown card, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/collection/add", map[string]interface{}{
		"card_id":  "card-1",
		"quantity": 3,
		"is_foil":  true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		FoilQty int `json:"foil_qty"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.FoilQty != 3 {
		t.Errorf("Expected foil_qty 3, got %d", resp.FoilQty)
	}
}

func TestDeckEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/decks", map[string]interface{}{
		"name":           "Mono Red",
		"main_deck_text": "4 Shock",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on create, got %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		DeckID uint `json:"deck_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	// Unknown names abort the save entirely.
	w = doJSON(t, router, http.MethodPost, "/api/decks", map[string]interface{}{
		"name":           "Bad Deck",
		"main_deck_text": "4 Black Lotus",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown deck names, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/decks", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on list, got %d", w.Code)
	}
	var list struct {
		Decks []models.DeckView `json:"decks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("Failed to decode list: %v", err)
	}
	if len(list.Decks) != 1 || list.Decks[0].ID != created.DeckID {
		t.Errorf("Expected only the created deck, got %+v", list.Decks)
	}
}

func TestStatsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/api/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var resp struct {
		Stats models.DatabaseStats `json:"stats"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode stats: %v", err)
	}
	if resp.Stats.TotalCards != 1 {
		t.Errorf("Expected 1 card in stats, got %d", resp.Stats.TotalCards)
	}
}
