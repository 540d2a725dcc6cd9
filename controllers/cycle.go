package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// OpenCycle starts the next review round for a card.
func OpenCycle(c *gin.Context) {
	cardID, err := strconv.Atoi(c.Param("id"))
	if err != nil || cardID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID", "code": "validation"})
		return
	}

	cycle, err := reviewService().OpenCycle(cardID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"cycle":   cycle,
	})
}

// CloseCycle ends the review round; evaluations stay editable until locked.
func CloseCycle(c *gin.Context) {
	cycleID, err := strconv.Atoi(c.Param("id"))
	if err != nil || cycleID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cycle ID", "code": "validation"})
		return
	}

	cycle, err := reviewService().CloseCycle(cycleID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"cycle":   cycle,
	})
}

// LockCycle makes the cycle terminal for evaluation writes.
func LockCycle(c *gin.Context) {
	cycleID, err := strconv.Atoi(c.Param("id"))
	if err != nil || cycleID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cycle ID", "code": "validation"})
		return
	}

	cycle, err := reviewService().LockCycle(cycleID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"cycle":   cycle,
	})
}

// MarkCycleFinal flags the cycle as the card's definitive quality outcome.
func MarkCycleFinal(c *gin.Context) {
	cycleID, err := strconv.Atoi(c.Param("id"))
	if err != nil || cycleID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cycle ID", "code": "validation"})
		return
	}

	cycle, err := reviewService().MarkFinal(cycleID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"cycle":   cycle,
	})
}
