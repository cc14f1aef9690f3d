// Package scryfall is the HTTP client for the external card catalog.
package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.scryfall.com"
	defaultTimeout = 10 * time.Second

	// The catalog asks clients to keep a 50-100ms gap between requests.
	defaultRequestInterval = 100 * time.Millisecond
)

// Client talks to the catalog API. All requests share one rate limiter so a
// batch ingestion never bursts past the polite request interval.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultBaseURL,
		limiter:    rate.NewLimiter(rate.Every(defaultRequestInterval), 1),
	}
}

// NewClientWithBaseURL points the client at an alternate catalog endpoint.
// Tests use this with httptest servers.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

type setsResponse struct {
	Data []Set `json:"data"`
}

type cardsResponse struct {
	Data     []Card `json:"data"`
	HasMore  bool   `json:"has_more"`
	NextPage string `json:"next_page"`
}

// ListSets fetches every set known to the catalog.
func (c *Client) ListSets(ctx context.Context) ([]Set, error) {
	body, err := c.get(ctx, c.baseURL+"/sets")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp setsResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode sets response: %w", err)
	}
	return resp.Data, nil
}

// SearchSetCards fetches all cards in a set, following the continuation
// cursor until the catalog reports no more pages.
func (c *Client) SearchSetCards(ctx context.Context, setCode string) ([]Card, error) {
	query := url.QueryEscape("set:" + setCode)
	next := fmt.Sprintf("%s/cards/search?q=%s", c.baseURL, query)

	var all []Card
	for next != "" {
		body, err := c.get(ctx, next)
		if err != nil {
			return nil, err
		}

		var resp cardsResponse
		err = json.NewDecoder(body).Decode(&resp)
		body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode cards response: %w", err)
		}

		all = append(all, resp.Data...)
		if resp.HasMore {
			next = resp.NextPage
		} else {
			next = ""
		}
	}
	return all, nil
}

// GetCard fetches one card by its catalog identifier. Returns nil, nil on 404.
func (c *Client) GetCard(ctx context.Context, id string) (*Card, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/cards/%s", c.baseURL, url.PathEscape(id)))
	if err != nil {
		if err == errNotFound {
			return nil, nil
		}
		return nil, err
	}
	defer body.Close()

	var card Card
	if err := json.NewDecoder(body).Decode(&card); err != nil {
		return nil, fmt.Errorf("failed to decode card response: %w", err)
	}
	return &card, nil
}

// BulkData is one downloadable bulk export advertised by the catalog.
type BulkData struct {
	Type        string `json:"type"`
	DownloadURI string `json:"download_uri"`
	Size        int64  `json:"size"`
	UpdatedAt   string `json:"updated_at"`
}

type bulkDataResponse struct {
	Data []BulkData `json:"data"`
}

// DefaultCardsDownloadURL resolves the download URI for the default-cards
// bulk export (the whole card corpus as one gzipped JSON array).
func (c *Client) DefaultCardsDownloadURL(ctx context.Context) (string, error) {
	body, err := c.get(ctx, c.baseURL+"/bulk-data")
	if err != nil {
		return "", err
	}
	defer body.Close()

	var resp bulkDataResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return "", fmt.Errorf("failed to decode bulk data response: %w", err)
	}
	for _, bd := range resp.Data {
		if bd.Type == "default_cards" {
			return bd.DownloadURI, nil
		}
	}
	return "", fmt.Errorf("default_cards bulk data not advertised by catalog")
}

// DownloadBulk streams the bulk payload at downloadURL. The caller owns the
// returned body. Bulk downloads skip the per-request timeout since the
// payload runs to hundreds of megabytes; cancel via ctx instead.
func (c *Client) DownloadBulk(ctx context.Context, downloadURL string) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download bulk data: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("bulk download returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

var errNotFound = fmt.Errorf("catalog returned 404")

func (c *Client) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
