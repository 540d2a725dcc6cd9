package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetQualityAdjustedVelocity returns the quality-weighted weekly point series,
// optionally filtered to one project via ?project_id=.
func GetQualityAdjustedVelocity(c *gin.Context) {
	var projectID *int
	if raw := c.Query("project_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID", "code": "validation"})
			return
		}
		projectID = &id
	}

	report, err := reviewService().VelocitySeries(projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"velocity": report,
	})
}
