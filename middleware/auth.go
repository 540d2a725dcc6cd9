package middleware

import (
	"net/http"
	"os"
	"strings"

	"studio-board-api/config"
	"studio-board-api/models"
	"studio-board-api/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the JWT token, loads the user with its company
// roles and resolves evaluator roles once for the request.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get token from header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		// Check Bearer prefix
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		// Parse token
		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// Get claims
		claims, ok := token.Claims.(*Claims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		// Check if user still exists
		var user models.User
		if err := config.DB.Preload("CompanyRoles").
			Where("user_id = ? AND delete_at IS NULL", claims.UserID).
			First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		companyRoles := user.CompanyRoleNames()
		evaluatorRoles := services.ResolveEvaluatorRoles(config.Review.RoleTable, companyRoles)

		// Set user info in context
		c.Set("userID", user.UserID)
		c.Set("email", user.Email)
		c.Set("user", &user)
		c.Set("companyRoles", companyRoles)
		c.Set("evaluatorRoles", evaluatorRoles)

		c.Next()
	}
}

// CurrentUser returns the authenticated user placed by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// EvaluatorRoles returns the resolved evaluator roles for the caller.
func EvaluatorRoles(c *gin.Context) []models.EvaluatorRole {
	value, exists := c.Get("evaluatorRoles")
	if !exists {
		return nil
	}
	roles, _ := value.([]models.EvaluatorRole)
	return roles
}

func companyRoles(c *gin.Context) []string {
	value, exists := c.Get("companyRoles")
	if !exists {
		return nil
	}
	names, _ := value.([]string)
	return names
}

// RequireNonViewer rejects callers whose only roles are viewer roles.
func RequireNonViewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !services.IsNonViewer(config.Review, companyRoles(c)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Viewer access is not sufficient", "code": "forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireEvaluator rejects callers without at least one evaluator role.
func RequireEvaluator() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !services.IsEvaluator(EvaluatorRoles(c)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Evaluator access is required", "code": "forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSummaryViewer admits evaluators and configured summary-viewer roles.
func RequireSummaryViewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !services.IsSummaryViewer(config.Review, companyRoles(c), EvaluatorRoles(c)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Summary access is required", "code": "forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSuperAdmin gates dimension and cycle management.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !services.IsSuperAdmin(config.Review, user) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Super admin access is required", "code": "forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}
