package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/magic-collector/internal/models"
	"github.com/codyseavey/magic-collector/internal/services"
)

type CardHandler struct {
	cards      *services.CardStore
	collection *services.CollectionLedger
}

func NewCardHandler(cards *services.CardStore, collection *services.CollectionLedger) *CardHandler {
	return &CardHandler{cards: cards, collection: collection}
}

func (h *CardHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		badRequest(c, "query parameter 'q' is required")
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	result, err := h.cards.Search(query, page, perPage)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetCard returns the card detail view: decoded faces, other printings and
// owned quantities for both finishes.
func (h *CardHandler) GetCard(c *gin.Context) {
	card, err := h.cards.FindByID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	nonFoil, foil, err := h.collection.Totals(card.ID)
	if err != nil {
		fail(c, err)
		return
	}

	printings, err := h.cards.OtherPrintings(card.Name, card.ID)
	if err != nil {
		fail(c, err)
		return
	}
	if printings == nil {
		printings = []models.Card{}
	}

	c.JSON(http.StatusOK, models.CardDetail{
		Card:           *card,
		Faces:          services.ParseFaceSummary(card.FaceSummary),
		OtherPrintings: printings,
		NonFoilQty:     nonFoil,
		FoilQty:        foil,
	})
}

// Lookup resolves a card by set code and collector number, the trade form's
// resolution path.
func (h *CardHandler) Lookup(c *gin.Context) {
	card, err := h.cards.FindBySetAndNumber(c.Param("set"), c.Param("number"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"card": gin.H{
			"id":               card.ID,
			"name":             card.Name,
			"set_code":         card.SetCode,
			"set_name":         card.SetName,
			"collector_number": card.CollectorNumber,
		},
	})
}

func (h *CardHandler) Stats(c *gin.Context) {
	stats, err := h.cards.Stats()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}
