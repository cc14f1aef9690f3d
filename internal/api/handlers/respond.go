package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/magic-collector/internal/services"
)

// fail maps a service error onto the success/message contract with an
// appropriate status code. Ledger rejections surface as visible failures,
// never silent absorption.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrCardNotFound), errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInsufficientHoldings):
		status = http.StatusConflict
	case errors.Is(err, services.ErrMissingIdentifier):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"success": false, "message": err.Error()})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}
