package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/magic-collector/internal/services"
)

// CatalogHandler exposes the fetch-and-store pipeline. Syncs run
// synchronously within the request; a dropped connection cancels the batch
// at the next between-items checkpoint and keeps everything already stored.
type CatalogHandler struct {
	ingestor *services.Ingestor
}

func NewCatalogHandler(ingestor *services.Ingestor) *CatalogHandler {
	return &CatalogHandler{ingestor: ingestor}
}

func (h *CatalogHandler) SyncSets(c *gin.Context) {
	stored, err := h.ingestor.SyncSets(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Fetched and stored %d sets", stored),
	})
}

func (h *CatalogHandler) SyncSetCards(c *gin.Context) {
	setCode := c.Param("code")
	result, err := h.ingestor.SyncSetCards(c.Request.Context(), setCode)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Fetched and stored %d cards for set %s", result.Stored, setCode),
		"result":  result,
	})
}

func (h *CatalogHandler) RefreshCollectionPrices(c *gin.Context) {
	updated, failed, err := h.ingestor.RefreshCollectionPrices(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if updated == 0 && failed == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "No cards in collection to update",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Updated prices and legality for %d cards. %d cards had errors.", updated, failed),
	})
}
