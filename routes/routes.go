package routes

import (
	"studio-board-api/controllers"
	"studio-board-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Studio Board API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Review dimensions
			dimensions := protected.Group("/dimensions")
			{
				dimensions.GET("", middleware.RequireNonViewer(), controllers.GetDimensions)

				// Dimension management is super-admin only
				dimensions.POST("", middleware.RequireSuperAdmin(), controllers.CreateDimension)
				dimensions.PUT("/reorder", middleware.RequireSuperAdmin(), controllers.ReorderDimensions)
				dimensions.PUT("/:id", middleware.RequireSuperAdmin(), controllers.UpdateDimension)
				dimensions.DELETE("/:id", middleware.RequireSuperAdmin(), controllers.DeleteDimension)
			}

			// Card quality views and cycle management
			cards := protected.Group("/cards")
			{
				cards.GET("/:id/quality", middleware.RequireNonViewer(), controllers.GetCardQuality)
				cards.POST("/:id/cycles", middleware.RequireEvaluator(), controllers.OpenCycle)
			}

			// Review cycles
			cycles := protected.Group("/cycles")
			{
				cycles.GET("/:id/summary", middleware.RequireNonViewer(), controllers.GetCycleSummary)

				cycles.GET("/:id/evaluation", middleware.RequireEvaluator(), controllers.GetCycleEvaluation)
				cycles.POST("/:id/evaluation", middleware.RequireEvaluator(), controllers.CreateEvaluation)
				cycles.PATCH("/:id/evaluation", middleware.RequireEvaluator(), controllers.UpdateEvaluation)

				// Lifecycle transitions happen on card completion/archival
				cycles.POST("/:id/close", middleware.RequireSuperAdmin(), controllers.CloseCycle)
				cycles.POST("/:id/lock", middleware.RequireSuperAdmin(), controllers.LockCycle)
				cycles.POST("/:id/final", middleware.RequireSuperAdmin(), controllers.MarkCycleFinal)
			}

			// Evaluations
			evaluations := protected.Group("/evaluations")
			{
				evaluations.GET("/pending", middleware.RequireEvaluator(), controllers.GetPendingEvaluations)
				evaluations.POST("/reminders", middleware.RequireSuperAdmin(), controllers.SendEvaluationReminders)
			}

			// Metrics
			metrics := protected.Group("/metrics")
			{
				metrics.GET("/velocity", middleware.RequireSummaryViewer(), controllers.GetQualityAdjustedVelocity)
			}
		}
	}
}
