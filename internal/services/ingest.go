package services

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/codyseavey/magic-collector/internal/metrics"
	"github.com/codyseavey/magic-collector/internal/models"
	"github.com/codyseavey/magic-collector/internal/scryfall"
)

// Ingestor drives the catalog-to-store pipeline. All entry points share the
// same normalize/store path; they differ only in how they iterate the
// source (per-set pagination vs one bulk payload). Failures on one item are
// logged and counted, and the batch moves on. Cancellation is honored
// between items, so everything already stored stays committed.
type Ingestor struct {
	client     *scryfall.Client
	store      *CardStore
	collection *CollectionLedger
}

func NewIngestor(client *scryfall.Client, store *CardStore, collection *CollectionLedger) *Ingestor {
	return &Ingestor{client: client, store: store, collection: collection}
}

// SyncSets fetches every set from the catalog and upserts them.
func (in *Ingestor) SyncSets(ctx context.Context) (int, error) {
	sets, err := in.client.ListSets(ctx)
	if err != nil {
		metrics.CatalogFetchErrors.Inc()
		return 0, fmt.Errorf("failed to fetch sets: %w", err)
	}

	stored := 0
	for _, raw := range sets {
		if err := ctx.Err(); err != nil {
			return stored, err
		}
		if err := in.store.UpsertSet(raw); err != nil {
			log.Printf("Error storing set %s: %v", raw.Code, err)
			continue
		}
		stored++
	}
	metrics.SetsIngested.Add(float64(stored))
	return stored, nil
}

// IngestResult summarizes one card batch.
type IngestResult struct {
	Stored  int `json:"stored"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// SyncSetCards fetches all cards of one set (following the catalog's
// pagination) and runs them through the normalizer and store. Records
// missing an identifier are skipped; per-card store failures are counted
// and the batch continues.
func (in *Ingestor) SyncSetCards(ctx context.Context, setCode string) (*IngestResult, error) {
	raws, err := in.client.SearchSetCards(ctx, setCode)
	if err != nil {
		metrics.CatalogFetchErrors.Inc()
		return nil, fmt.Errorf("failed to fetch cards for set %s: %w", setCode, err)
	}

	result := &IngestResult{}
	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		in.ingestOne(raw, setCode, result)
	}
	metrics.CardsIngested.Add(float64(result.Stored))
	return result, nil
}

// BulkImport downloads the entire default-cards corpus as one gzipped JSON
// array, spools it to a temp file, and streams every record through the
// same normalize/store path the per-set sync uses.
func (in *Ingestor) BulkImport(ctx context.Context) (*IngestResult, error) {
	downloadURL, err := in.client.DefaultCardsDownloadURL(ctx)
	if err != nil {
		metrics.CatalogFetchErrors.Inc()
		return nil, err
	}
	log.Printf("Downloading bulk card data from %s", downloadURL)

	body, err := in.client.DownloadBulk(ctx, downloadURL)
	if err != nil {
		metrics.CatalogFetchErrors.Inc()
		return nil, err
	}
	defer body.Close()

	tmpPath := filepath.Join(os.TempDir(), "bulk-cards-"+uuid.New().String()+".json.gz")
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpPath)

	written, err := io.Copy(tmp, body)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to download bulk data: %w", err)
	}
	log.Printf("Downloaded %.1f MB of bulk data", float64(written)/(1024*1024))

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, err
	}
	defer tmp.Close()

	gz, err := gzip.NewReader(tmp)
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer gz.Close()

	result := &IngestResult{}
	dec := json.NewDecoder(gz)

	// The payload is one large JSON array, not line-delimited JSON.
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("malformed bulk payload: %w", err)
	}
	for dec.More() {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		var raw scryfall.Card
		if err := dec.Decode(&raw); err != nil {
			// A wrong-typed field fails only that record: the decoder
			// consumes the rest of the value, so the stream stays aligned.
			// Anything else means the stream itself is corrupt.
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				result.Failed++
				log.Printf("Error decoding card record: %v", err)
				continue
			}
			return result, fmt.Errorf("malformed bulk payload: %w", err)
		}
		in.ingestOne(raw, "", result)

		if result.Stored > 0 && result.Stored%1000 == 0 {
			log.Printf("  Processed %d cards...", result.Stored)
		}
	}

	metrics.CardsIngested.Add(float64(result.Stored))
	return result, nil
}

func (in *Ingestor) ingestOne(raw scryfall.Card, setCode string, result *IngestResult) {
	card, err := NormalizeCard(raw, setCode)
	if err != nil {
		if errors.Is(err, ErrMissingIdentifier) {
			result.Skipped++
			metrics.CardsSkipped.Inc()
			return
		}
		result.Failed++
		log.Printf("Error normalizing card %q: %v", raw.Name, err)
		return
	}
	if err := in.store.StoreCard(card); err != nil {
		result.Failed++
		log.Printf("Error storing card %q: %v", card.Name, err)
		return
	}
	result.Stored++
}

// RefreshCollectionPrices refetches every card in the collection from the
// catalog and updates its prices and legalities blobs in place. Fetch
// failures for one card do not stop the loop.
func (in *Ingestor) RefreshCollectionPrices(ctx context.Context) (updated, failed int, err error) {
	var cardIDs []string
	err = in.collection.db.Model(&models.CollectionEntry{}).
		Distinct("card_id").
		Pluck("card_id", &cardIDs).Error
	if err != nil {
		return 0, 0, err
	}
	if len(cardIDs) == 0 {
		return 0, 0, nil
	}

	for _, id := range cardIDs {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return updated, failed, ctxErr
		}

		raw, fetchErr := in.client.GetCard(ctx, id)
		if fetchErr != nil || raw == nil {
			metrics.CatalogFetchErrors.Inc()
			log.Printf("Error refreshing card %s: %v", id, fetchErr)
			failed++
			continue
		}

		updateErr := in.store.UpdatePricesAndLegalities(id,
			models.PriceMap(raw.Prices), models.StringMap(raw.Legalities))
		if updateErr != nil {
			log.Printf("Error updating card %s: %v", id, updateErr)
			failed++
			continue
		}
		updated++
	}
	return updated, failed, nil
}
