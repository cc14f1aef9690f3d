package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/magic-collector/internal/services"
)

type SetHandler struct {
	cards *services.CardStore
}

func NewSetHandler(cards *services.CardStore) *SetHandler {
	return &SetHandler{cards: cards}
}

func (h *SetHandler) ListSets(c *gin.Context) {
	sets, err := h.cards.ListSets()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sets": sets})
}

func (h *SetHandler) GetSetInfo(c *gin.Context) {
	info, err := h.cards.SetInfo(c.Param("code"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "set_info": info})
}

// ListSetCards returns the set's cards in collector-number order.
func (h *SetHandler) ListSetCards(c *gin.Context) {
	setCode := c.Param("code")
	if _, err := h.cards.GetSet(setCode); err != nil {
		fail(c, err)
		return
	}
	cards, err := h.cards.ListSetCards(setCode)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cards": cards})
}
