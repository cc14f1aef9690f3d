package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/magic-collector/internal/models"
	"github.com/codyseavey/magic-collector/internal/services"
)

type DeckHandler struct {
	decks *services.DeckService
}

func NewDeckHandler(decks *services.DeckService) *DeckHandler {
	return &DeckHandler{decks: decks}
}

func (h *DeckHandler) List(c *gin.Context) {
	views, err := h.decks.List()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "decks": views})
}

func (h *DeckHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		badRequest(c, "invalid deck id")
		return
	}
	view, err := h.decks.Get(uint(id))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *DeckHandler) Create(c *gin.Context) {
	var req models.SaveDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	deckID, err := h.decks.Save(0, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Deck created successfully",
		"deck_id": deckID,
	})
}

func (h *DeckHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		badRequest(c, "invalid deck id")
		return
	}
	var req models.SaveDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	deckID, err := h.decks.Save(uint(id), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Deck updated successfully",
		"deck_id": deckID,
	})
}

func (h *DeckHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		badRequest(c, "invalid deck id")
		return
	}
	if err := h.decks.Delete(uint(id)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Deck deleted successfully"})
}

func (h *DeckHandler) Clear(c *gin.Context) {
	removed, err := h.decks.DeleteAll()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Successfully deleted %d decks from the database", removed),
	})
}
