package api

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codyseavey/magic-collector/internal/api/handlers"
	"github.com/codyseavey/magic-collector/internal/metrics"
	"github.com/codyseavey/magic-collector/internal/services"
)

// SetupRouter wires every inbound command to its handler.
func SetupRouter(
	cards *services.CardStore,
	collection *services.CollectionLedger,
	trades *services.TradeLedger,
	decks *services.DeckService,
	ingestor *services.Ingestor,
) *gin.Engine {
	router := gin.Default()
	router.Use(metrics.GinMiddleware())

	config := cors.DefaultConfig()
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		config.AllowOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = false
	router.Use(cors.New(config))

	cardHandler := handlers.NewCardHandler(cards, collection)
	setHandler := handlers.NewSetHandler(cards)
	collectionHandler := handlers.NewCollectionHandler(cards, collection)
	tradeHandler := handlers.NewTradeHandler(trades)
	deckHandler := handlers.NewDeckHandler(decks)
	catalogHandler := handlers.NewCatalogHandler(ingestor)

	apiGroup := router.Group("/api")
	{
		catalog := apiGroup.Group("/catalog")
		{
			catalog.POST("/sync-sets", catalogHandler.SyncSets)
			catalog.POST("/sync-set/:code", catalogHandler.SyncSetCards)
			catalog.POST("/refresh-collection-prices", catalogHandler.RefreshCollectionPrices)
		}

		sets := apiGroup.Group("/sets")
		{
			sets.GET("", setHandler.ListSets)
			sets.GET("/:code", setHandler.GetSetInfo)
			sets.GET("/:code/cards", setHandler.ListSetCards)
		}

		cardsGroup := apiGroup.Group("/cards")
		{
			cardsGroup.GET("/search", cardHandler.Search)
			cardsGroup.GET("/lookup/:set/:number", cardHandler.Lookup)
			cardsGroup.GET("/:id", cardHandler.GetCard)
		}

		collectionGroup := apiGroup.Group("/collection")
		{
			collectionGroup.GET("", collectionHandler.GetCollection)
			collectionGroup.POST("/add", collectionHandler.Add)
			collectionGroup.POST("/set-quantity", collectionHandler.SetQuantity)
			collectionGroup.POST("/clear", collectionHandler.Clear)
		}

		tradesGroup := apiGroup.Group("/trades")
		{
			tradesGroup.GET("", tradeHandler.List)
			tradesGroup.POST("", tradeHandler.Add)
			tradesGroup.DELETE("/:id", tradeHandler.Delete)
			tradesGroup.POST("/clear", tradeHandler.Clear)
		}

		decksGroup := apiGroup.Group("/decks")
		{
			decksGroup.GET("", deckHandler.List)
			decksGroup.GET("/:id", deckHandler.Get)
			decksGroup.POST("", deckHandler.Create)
			decksGroup.PUT("/:id", deckHandler.Update)
			decksGroup.DELETE("/:id", deckHandler.Delete)
			decksGroup.POST("/clear", deckHandler.Clear)
		}

		apiGroup.GET("/stats", cardHandler.Stats)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
