package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/magic-collector/internal/metrics"
	"github.com/codyseavey/magic-collector/internal/models"
	"github.com/codyseavey/magic-collector/internal/services"
)

type TradeHandler struct {
	trades *services.TradeLedger
}

func NewTradeHandler(trades *services.TradeLedger) *TradeHandler {
	return &TradeHandler{trades: trades}
}

func (h *TradeHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	list, err := h.trades.List(page)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *TradeHandler) Add(c *gin.Context) {
	var req models.AddTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	trade, collectionMsg, err := h.trades.Add(req)
	if err != nil {
		recordRejection(err)
		fail(c, err)
		return
	}

	metrics.TradesRecorded.WithLabelValues(string(trade.Direction)).Inc()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Successfully added %s trade for %d cards. %s",
			trade.Direction, trade.Quantity, collectionMsg),
		"trade": trade,
	})
}

func (h *TradeHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		badRequest(c, "invalid trade id")
		return
	}

	collectionMsg, err := h.trades.Delete(uint(id))
	if err != nil {
		recordRejection(err)
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Successfully deleted trade. %s", collectionMsg),
	})
}

func (h *TradeHandler) Clear(c *gin.Context) {
	removed, err := h.trades.DeleteAll()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Successfully deleted %d trades from the database", removed),
	})
}

func recordRejection(err error) {
	switch {
	case errors.Is(err, services.ErrInsufficientHoldings):
		metrics.TradesRejected.WithLabelValues("insufficient_holdings").Inc()
	case errors.Is(err, services.ErrCardNotFound):
		metrics.TradesRejected.WithLabelValues("card_not_found").Inc()
	}
}
