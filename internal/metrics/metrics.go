// Package metrics provides Prometheus metrics for the collection manager.
// Scrape these at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mc_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mc_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Ingest metrics
	SetsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mc_sets_ingested_total",
			Help: "Total number of sets fetched and stored from the catalog",
		},
	)

	CardsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mc_cards_ingested_total",
			Help: "Total number of cards normalized and stored",
		},
	)

	CardsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mc_cards_skipped_total",
			Help: "Catalog records skipped for missing an identifier",
		},
	)

	CatalogFetchErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mc_catalog_fetch_errors_total",
			Help: "Failed catalog API requests (batches continue past these)",
		},
	)

	// Trade ledger metrics
	TradesRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mc_trades_recorded_total",
			Help: "Trades accepted by the ledger, by direction",
		},
		[]string{"direction"},
	)

	TradesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mc_trades_rejected_total",
			Help: "Trades rejected by the ledger, by reason",
		},
		[]string{"reason"}, // "insufficient_holdings", "card_not_found"
	)

	// Collection gauges, refreshed periodically
	CollectionEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mc_collection_entries",
			Help: "Number of (card, finish) entries in the collection",
		},
	)

	CollectionCardsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mc_collection_cards_total",
			Help: "Total number of cards owned across all entries",
		},
	)

	CardDatabaseSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mc_card_database_size",
			Help: "Number of unique cards in the database",
		},
	)
)

// GinMiddleware records request counts and latency per route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}

// UpdateCollectionGauges refreshes the collection and card-database gauges.
func UpdateCollectionGauges(db *gorm.DB) {
	var entries int64
	db.Table("user_collection").Count(&entries)
	CollectionEntries.Set(float64(entries))

	var totalCards int64
	db.Table("user_collection").Select("COALESCE(SUM(quantity), 0)").Scan(&totalCards)
	CollectionCardsTotal.Set(float64(totalCards))

	var cards int64
	db.Table("cards").Count(&cards)
	CardDatabaseSize.Set(float64(cards))
}
