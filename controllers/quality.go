package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetCardQuality returns the latest/final summaries and the full per-cycle
// progression for one card.
func GetCardQuality(c *gin.Context) {
	cardID, err := strconv.Atoi(c.Param("id"))
	if err != nil || cardID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID", "code": "validation"})
		return
	}

	view, err := reviewService().CardQuality(cardID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"quality": view,
	})
}

// GetCycleSummary returns the aggregated summary for one cycle.
func GetCycleSummary(c *gin.Context) {
	cycleID, err := strconv.Atoi(c.Param("id"))
	if err != nil || cycleID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cycle ID", "code": "validation"})
		return
	}

	summary, err := reviewService().CycleSummaryByID(cycleID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"summary": summary,
	})
}
