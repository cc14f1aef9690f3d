package scryfall

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListSets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sets" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"data":[{"id":"s1","code":"lea","name":"Alpha"},{"id":"s2","code":"leb","name":"Beta"}]}`)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	sets, err := client.ListSets(context.Background())
	if err != nil {
		t.Fatalf("ListSets failed: %v", err)
	}
	if len(sets) != 2 {
		t.Fatalf("Expected 2 sets, got %d", len(sets))
	}
	if sets[0].Code != "lea" || sets[1].Name != "Beta" {
		t.Errorf("Unexpected sets: %+v", sets)
	}
}

func TestSearchSetCardsFollowsPagination(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/cards/search" && r.URL.Query().Get("page") == "":
			if r.URL.Query().Get("q") != "set:lea" {
				t.Errorf("Unexpected query %q", r.URL.Query().Get("q"))
			}
			fmt.Fprintf(w, `{"data":[{"id":"c1","name":"Lightning Bolt"}],"has_more":true,"next_page":%q}`,
				server.URL+"/cards/search?page=2")
		case r.URL.Path == "/cards/search" && r.URL.Query().Get("page") == "2":
			fmt.Fprint(w, `{"data":[{"id":"c2","name":"Counterspell"}],"has_more":false}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	cards, err := client.SearchSetCards(context.Background(), "lea")
	if err != nil {
		t.Fatalf("SearchSetCards failed: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("Expected 2 cards across pages, got %d", len(cards))
	}
	if cards[0].ID != "c1" || cards[1].ID != "c2" {
		t.Errorf("Unexpected cards: %+v", cards)
	}
}

func TestGetCard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cards/c1":
			fmt.Fprint(w, `{"id":"c1","name":"Lightning Bolt","prices":{"usd":"1.50","usd_foil":null}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)

	card, err := client.GetCard(context.Background(), "c1")
	if err != nil {
		t.Fatalf("GetCard failed: %v", err)
	}
	if card.Name != "Lightning Bolt" {
		t.Errorf("Expected Lightning Bolt, got %q", card.Name)
	}
	if card.Prices["usd"] == nil || *card.Prices["usd"] != "1.50" {
		t.Errorf("Expected usd price, got %v", card.Prices)
	}
	if v, ok := card.Prices["usd_foil"]; !ok || v != nil {
		t.Errorf("Expected null usd_foil to decode as nil pointer, got %v", card.Prices)
	}

	missing, err := client.GetCard(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetCard on 404 should not error, got %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil card on 404, got %+v", missing)
	}
}

func TestDefaultCardsDownloadURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bulk-data" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"data":[
			{"type":"oracle_cards","download_uri":"https://dl.example/oracle.json.gz"},
			{"type":"default_cards","download_uri":"https://dl.example/default.json.gz"}
		]}`)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	url, err := client.DefaultCardsDownloadURL(context.Background())
	if err != nil {
		t.Fatalf("DefaultCardsDownloadURL failed: %v", err)
	}
	if url != "https://dl.example/default.json.gz" {
		t.Errorf("Expected default_cards URI, got %q", url)
	}
}

func TestDefaultCardsDownloadURLMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"type":"oracle_cards","download_uri":"x"}]}`)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	if _, err := client.DefaultCardsDownloadURL(context.Background()); err == nil {
		t.Error("Expected error when default_cards is not advertised")
	}
}

func TestDownloadBulk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "payload-bytes")
	}))
	defer server.Close()

	client := NewClient()
	body, err := client.DownloadBulk(context.Background(), server.URL+"/bulk")
	if err != nil {
		t.Fatalf("DownloadBulk failed: %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != "payload-bytes" {
		t.Errorf("Expected payload round trip, got %q", data)
	}
}

func TestGetErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	if _, err := client.ListSets(context.Background()); err == nil {
		t.Error("Expected error on non-200 status")
	}
}
