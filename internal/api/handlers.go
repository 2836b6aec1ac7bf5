package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/foodfriend/backend/internal/database"
	"github.com/foodfriend/backend/internal/middleware"
)

// Handlers groups the route handlers mounted by RegisterRoutes.
type Handlers struct {
	Recipes  *RecipeHandler
	Meals    *MealHandler
	Webhooks *WebhookHandler
	Health   *HealthHandler
}

// RegisterRoutes registers all API routes. limiter may be nil, in which
// case model-backed routes are not rate limited.
func RegisterRoutes(router *gin.Engine, auth middleware.TokenValidator, limiter *middleware.RateLimiter, h Handlers) {
	router.GET("/health", h.Health.Check)
	router.GET("/api/health", h.Health.Check)

	requireAuth := middleware.AuthMiddleware(auth)
	modelCall := []gin.HandlerFunc{requireAuth}
	if limiter != nil {
		modelCall = append(modelCall, limiter.RateLimitMiddleware())
	}

	v1 := router.Group("/api/v1")

	v1.POST("/analyze", append(modelCall, h.Recipes.Analyze)...)
	v1.POST("/recipe/generate", append(modelCall, h.Recipes.Generate)...)
	v1.GET("/recipe", requireAuth, h.Recipes.List)
	v1.GET("/recipe/:id", h.Recipes.Get)
	v1.DELETE("/recipe/:id", requireAuth, h.Recipes.Delete)
	v1.GET("/global_recipe", h.Recipes.Global)

	v1.POST("/meals", append(modelCall, h.Meals.Log)...)
	v1.GET("/meals/day", requireAuth, h.Meals.Day)

	v1.POST("/webhooks/identity", h.Webhooks.Identity)
}

// HealthHandler reports whether the service can reach its database.
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check returns the health status of the API
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := database.HealthCheck(ctx, h.db); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "foodfriend API is running",
	})
}
