package controllers

import (
	"net/http"

	"studio-board-api/config"
	"studio-board-api/services"

	"github.com/gin-gonic/gin"
)

// reviewService builds the lifecycle service on the shared DB handle and the
// active review settings.
func reviewService() *services.ReviewService {
	return services.NewReviewService(config.DB, config.Review)
}

// respondServiceError maps the engine's error taxonomy onto HTTP statuses.
// Locked cycles surface as Forbidden with their specific message, per the
// error contract.
func respondServiceError(c *gin.Context, err error) {
	se := services.AsServiceError(err)

	status := http.StatusInternalServerError
	switch se.Kind {
	case services.KindValidation:
		status = http.StatusBadRequest
	case services.KindConflict:
		status = http.StatusConflict
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindLocked, services.KindForbidden:
		status = http.StatusForbidden
	}

	c.JSON(status, gin.H{"error": se.Message, "code": string(se.Kind)})
}
