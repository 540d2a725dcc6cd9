package controllers

import (
	"net/http"
	"strconv"

	"studio-board-api/services"

	"github.com/gin-gonic/gin"
)

// GetDimensions lists the dimension catalog ordered by position. Inactive
// dimensions are included when ?include_inactive=true (management view).
func GetDimensions(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	dims, err := reviewService().ListDimensions(includeInactive)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"dimensions": dims,
		"total":      len(dims),
	})
}

// CreateDimension adds a dimension at the end of the ordering.
func CreateDimension(c *gin.Context) {
	var req services.DimensionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "code": "validation"})
		return
	}

	dim, err := reviewService().CreateDimension(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"dimension": dim,
	})
}

// UpdateDimension rewrites a dimension's attributes and role set.
func UpdateDimension(c *gin.Context) {
	dimensionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || dimensionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dimension ID", "code": "validation"})
		return
	}

	var req services.DimensionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "code": "validation"})
		return
	}

	dim, err := reviewService().UpdateDimension(dimensionID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"dimension": dim,
	})
}

// DeleteDimension soft-deletes a scored dimension, hard-deletes an unscored one.
func DeleteDimension(c *gin.Context) {
	dimensionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || dimensionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dimension ID", "code": "validation"})
		return
	}

	hard, err := reviewService().DeleteDimension(dimensionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "Dimension deactivated (historical scores reference it)"
	if hard {
		message = "Dimension deleted"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"deleted": hard,
		"message": message,
	})
}

// ReorderDimensions accepts a complete permutation of existing dimension ids.
func ReorderDimensions(c *gin.Context) {
	var req struct {
		DimensionIDs []int `json:"dimension_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "code": "validation"})
		return
	}

	dims, err := reviewService().ReorderDimensions(req.DimensionIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"dimensions": dims,
	})
}
