package controllers

import (
	"net/http"
	"strconv"

	"studio-board-api/middleware"
	"studio-board-api/services"

	"github.com/gin-gonic/gin"
)

type evaluationRequest struct {
	Scores []services.ScoreEntry `json:"scores" binding:"required"`
}

// GetCycleEvaluation returns the reviewer's view of a cycle: eligible
// dimensions, whether edits are still accepted, and any existing submission.
func GetCycleEvaluation(c *gin.Context) {
	cycleID, err := strconv.Atoi(c.Param("id"))
	if err != nil || cycleID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cycle ID", "code": "validation"})
		return
	}

	userID := c.GetInt("userID")
	view, err := reviewService().ReviewerCycleView(cycleID, userID, middleware.EvaluatorRoles(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"view":    view,
	})
}

// CreateEvaluation submits the caller's scores for a cycle.
func CreateEvaluation(c *gin.Context) {
	cycleID, err := strconv.Atoi(c.Param("id"))
	if err != nil || cycleID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cycle ID", "code": "validation"})
		return
	}

	var req evaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "code": "validation"})
		return
	}

	userID := c.GetInt("userID")
	evaluation, err := reviewService().CreateEvaluation(cycleID, userID, middleware.EvaluatorRoles(c), req.Scores)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"evaluation": evaluation,
	})
}

// UpdateEvaluation replaces the caller's previously submitted scores.
func UpdateEvaluation(c *gin.Context) {
	cycleID, err := strconv.Atoi(c.Param("id"))
	if err != nil || cycleID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cycle ID", "code": "validation"})
		return
	}

	var req evaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "code": "validation"})
		return
	}

	userID := c.GetInt("userID")
	evaluation, err := reviewService().UpdateEvaluation(cycleID, userID, middleware.EvaluatorRoles(c), req.Scores)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"evaluation": evaluation,
	})
}

// GetPendingEvaluations lists cycles still waiting on the caller.
func GetPendingEvaluations(c *gin.Context) {
	userID := c.GetInt("userID")
	pending, err := reviewService().PendingEvaluations(userID, middleware.EvaluatorRoles(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"pending": pending,
		"total":   len(pending),
	})
}

// SendEvaluationReminders mails every evaluator with outstanding reviews.
func SendEvaluationReminders(c *gin.Context) {
	sent, err := reviewService().SendPendingReminders()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"sent":    sent,
	})
}
