package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/magic-collector/internal/models"
	"github.com/codyseavey/magic-collector/internal/services"
)

type CollectionHandler struct {
	cards      *services.CardStore
	collection *services.CollectionLedger
}

func NewCollectionHandler(cards *services.CardStore, collection *services.CollectionLedger) *CollectionHandler {
	return &CollectionHandler{cards: cards, collection: collection}
}

func (h *CollectionHandler) GetCollection(c *gin.Context) {
	view, err := h.collection.List()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Add adds copies of a card to the collection.
func (h *CollectionHandler) Add(c *gin.Context) {
	var req models.AddToCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Quantity <= 0 {
		badRequest(c, "Invalid card ID or quantity")
		return
	}

	if _, err := h.cards.FindByID(req.CardID); err != nil {
		fail(c, err)
		return
	}

	if err := h.collection.Adjust(req.CardID, req.Quantity, req.IsFoil); err != nil {
		fail(c, err)
		return
	}

	nonFoil, foil, err := h.collection.Totals(req.CardID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      fmt.Sprintf("Added %d %s card(s) to collection", req.Quantity, finishWord(req.IsFoil)),
		"non_foil_qty": nonFoil,
		"foil_qty":     foil,
	})
}

// SetQuantity sets the exact owned quantity; zero removes the entry.
func (h *CollectionHandler) SetQuantity(c *gin.Context) {
	var req models.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if _, err := h.cards.FindByID(req.CardID); err != nil {
		fail(c, err)
		return
	}

	newQuantity, err := h.collection.SetExact(req.CardID, req.Quantity, req.IsFoil)
	if err != nil {
		fail(c, err)
		return
	}

	nonFoil, foil, err := h.collection.Totals(req.CardID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      fmt.Sprintf("Updated %s quantity to %d", finishWord(req.IsFoil), newQuantity),
		"new_quantity": newQuantity,
		"non_foil_qty": nonFoil,
		"foil_qty":     foil,
	})
}

func (h *CollectionHandler) Clear(c *gin.Context) {
	removed, err := h.collection.Clear()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Successfully cleared %d cards from collection", removed),
	})
}

func finishWord(isFoil bool) string {
	if isFoil {
		return "foil"
	}
	return "non-foil"
}
