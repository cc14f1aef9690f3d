package services

import (
	"errors"
	"testing"
	"time"

	"github.com/codyseavey/magic-collector/internal/models"
	"github.com/codyseavey/magic-collector/internal/scryfall"
)

func testCard(id, name, setCode, number string) models.Card {
	return models.Card{
		ID:              id,
		Name:            name,
		TypeLine:        "Instant",
		SetCode:         setCode,
		CollectorNumber: number,
		CreatedAt:       time.Now(),
	}
}

func TestStoreCardIdempotent(t *testing.T) {
	store := NewCardStore(newTestDB(t))

	card := testCard("card-1", "Lightning Bolt", "lea", "161")
	card.Legalities = models.StringMap{"modern": "legal"}
	card.Prices = models.PriceMap{"usd": strPtr("1.50"), "usd_foil": nil}

	if err := store.StoreCard(card); err != nil {
		t.Fatalf("First store failed: %v", err)
	}
	card.Name = "Lightning Bolt (updated)"
	if err := store.StoreCard(card); err != nil {
		t.Fatalf("Second store failed: %v", err)
	}

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalCards != 1 {
		t.Errorf("Expected 1 card after double store, got %d", stats.TotalCards)
	}

	got, err := store.FindByID("card-1")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.Name != "Lightning Bolt (updated)" {
		t.Errorf("Expected replaced name, got %q", got.Name)
	}

	// History is append-only: two stores leave two legality snapshots and
	// two price rows (the null usd_foil is never recorded).
	var legalities int64
	store.db.Model(&models.LegalityHistory{}).Where("card_id = ?", "card-1").Count(&legalities)
	if legalities != 2 {
		t.Errorf("Expected 2 legality history rows, got %d", legalities)
	}
	var prices int64
	store.db.Model(&models.PriceHistory{}).Where("card_id = ?", "card-1").Count(&prices)
	if prices != 2 {
		t.Errorf("Expected 2 price history rows, got %d", prices)
	}
}

func TestFindBySetAndNumber(t *testing.T) {
	store := NewCardStore(newTestDB(t))
	if err := store.StoreCard(testCard("card-1", "Counterspell", "lea", "54")); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	// Twice: first may hit the db, second hits the lookup cache.
	for i := 0; i < 2; i++ {
		card, err := store.FindBySetAndNumber("lea", "54")
		if err != nil {
			t.Fatalf("Lookup %d failed: %v", i+1, err)
		}
		if card.ID != "card-1" {
			t.Errorf("Expected card-1, got %q", card.ID)
		}
	}

	if _, err := store.FindBySetAndNumber("lea", "999"); !errors.Is(err, ErrCardNotFound) {
		t.Errorf("Expected ErrCardNotFound, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	store := NewCardStore(newTestDB(t))
	cards := []models.Card{
		testCard("c1", "Lightning Bolt", "lea", "161"),
		testCard("c2", "Lightning Strike", "m19", "156"),
		testCard("c3", "Counterspell", "lea", "54"),
	}
	cards[2].OracleText = "Counter target spell with lightning speed."
	for _, c := range cards {
		if err := store.StoreCard(c); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
	}

	result, err := store.Search("lightning", 1, 20)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	// Oracle text matches too, so the Counterspell row is included.
	if result.TotalCount != 3 {
		t.Errorf("Expected 3 matches, got %d", result.TotalCount)
	}

	paged, err := store.Search("lightning", 1, 2)
	if err != nil {
		t.Fatalf("Paged search failed: %v", err)
	}
	if len(paged.Cards) != 2 || !paged.HasMore {
		t.Errorf("Expected page of 2 with more remaining, got %d cards, has_more=%v",
			len(paged.Cards), paged.HasMore)
	}
}

func TestListSetCardsOrdering(t *testing.T) {
	store := NewCardStore(newTestDB(t))
	numbers := []string{"TOK", "12a", "2", "12", "12b", "1"}
	for _, n := range numbers {
		if err := store.StoreCard(testCard("c"+n, "Card "+n, "tst", n)); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
	}

	cards, err := store.ListSetCards("tst")
	if err != nil {
		t.Fatalf("ListSetCards failed: %v", err)
	}
	want := []string{"1", "2", "12", "12a", "12b", "TOK"}
	if len(cards) != len(want) {
		t.Fatalf("Expected %d cards, got %d", len(want), len(cards))
	}
	for i, w := range want {
		if cards[i].CollectorNumber != w {
			t.Errorf("Position %d: expected %q, got %q", i, w, cards[i].CollectorNumber)
		}
	}
}

func TestCompareCollectorNumbers(t *testing.T) {
	tests := []struct {
		a, b     string
		expected bool
	}{
		{"2", "12", true},
		{"12", "2", false},
		{"12", "12a", true},
		{"12a", "12b", true},
		{"12", "TOK", true},
		{"TOK", "12", false},
		{"TOK", "XYZ", true},
		{"007", "8", true},
	}
	for _, tt := range tests {
		if got := compareCollectorNumbers(tt.a, tt.b); got != tt.expected {
			t.Errorf("compareCollectorNumbers(%q, %q) = %v, expected %v", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestSetInfo(t *testing.T) {
	store := NewCardStore(newTestDB(t))
	err := store.UpsertSet(scryfall.Set{
		ID: "set-1", Code: "tst", Name: "Test Set", CardCount: 100,
	})
	if err != nil {
		t.Fatalf("UpsertSet failed: %v", err)
	}
	for _, n := range []string{"3", "41", "TOK"} {
		if err := store.StoreCard(testCard("c"+n, "Card "+n, "tst", n)); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
	}

	info, err := store.SetInfo("tst")
	if err != nil {
		t.Fatalf("SetInfo failed: %v", err)
	}
	if info.Name != "Test Set" || info.CardCount != 100 {
		t.Errorf("Unexpected set metadata: %+v", info)
	}
	if info.MaxCollectorNumber != 41 {
		t.Errorf("Expected max collector number 41, got %d", info.MaxCollectorNumber)
	}

	if _, err := store.SetInfo("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown set, got %v", err)
	}
}

func TestUpsertSetReplaces(t *testing.T) {
	store := NewCardStore(newTestDB(t))
	raw := scryfall.Set{ID: "set-1", Code: "tst", Name: "Test Set", CardCount: 100}
	if err := store.UpsertSet(raw); err != nil {
		t.Fatalf("UpsertSet failed: %v", err)
	}
	raw.CardCount = 120
	if err := store.UpsertSet(raw); err != nil {
		t.Fatalf("Second UpsertSet failed: %v", err)
	}

	set, err := store.GetSet("tst")
	if err != nil {
		t.Fatalf("GetSet failed: %v", err)
	}
	if set.CardCount != 120 {
		t.Errorf("Expected replaced card count 120, got %d", set.CardCount)
	}

	sets, err := store.ListSets()
	if err != nil {
		t.Fatalf("ListSets failed: %v", err)
	}
	if len(sets) != 1 {
		t.Errorf("Expected 1 set after double upsert, got %d", len(sets))
	}
}

func TestUpdatePricesAndLegalities(t *testing.T) {
	store := NewCardStore(newTestDB(t))
	if err := store.StoreCard(testCard("card-1", "Counterspell", "lea", "54")); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	err := store.UpdatePricesAndLegalities("card-1",
		models.PriceMap{"usd": strPtr("9.99")},
		models.StringMap{"legacy": "legal"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	card, err := store.FindByID("card-1")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if card.Prices["usd"] == nil || *card.Prices["usd"] != "9.99" {
		t.Errorf("Expected refreshed usd price, got %v", card.Prices)
	}
	if card.Legalities["legacy"] != "legal" {
		t.Errorf("Expected refreshed legalities, got %v", card.Legalities)
	}

	err = store.UpdatePricesAndLegalities("missing", nil, nil)
	if !errors.Is(err, ErrCardNotFound) {
		t.Errorf("Expected ErrCardNotFound for unknown card, got %v", err)
	}
}

func TestOtherPrintings(t *testing.T) {
	store := NewCardStore(newTestDB(t))
	if err := store.UpsertSet(scryfall.Set{ID: "s1", Code: "lea", Name: "Alpha", ReleasedAt: "1993-08-05"}); err != nil {
		t.Fatalf("UpsertSet failed: %v", err)
	}
	if err := store.UpsertSet(scryfall.Set{ID: "s2", Code: "m19", Name: "Core 19", ReleasedAt: "2018-07-13"}); err != nil {
		t.Fatalf("UpsertSet failed: %v", err)
	}
	for _, c := range []models.Card{
		testCard("c1", "Shock", "lea", "1"),
		testCard("c2", "Shock", "m19", "2"),
		testCard("c3", "Other", "m19", "3"),
	} {
		if err := store.StoreCard(c); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
	}

	printings, err := store.OtherPrintings("Shock", "c1")
	if err != nil {
		t.Fatalf("OtherPrintings failed: %v", err)
	}
	if len(printings) != 1 || printings[0].ID != "c2" {
		t.Errorf("Expected only the other Shock printing, got %+v", printings)
	}
}

func TestMissingNames(t *testing.T) {
	store := NewCardStore(newTestDB(t))
	if err := store.StoreCard(testCard("c1", "Island", "lea", "1")); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	missing, err := store.MissingNames([]string{"Island", "Mountain", "Swamp"})
	if err != nil {
		t.Fatalf("MissingNames failed: %v", err)
	}
	if len(missing) != 2 {
		t.Fatalf("Expected 2 missing names, got %v", missing)
	}
}
