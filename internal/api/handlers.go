package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/smartmeal/backend/internal/middleware"
	"github.com/pageza/smartmeal/backend/internal/service"
)

// Version is reported by the health endpoint.
var Version = "v1.0.0"

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "SmartMeal API is running",
		"version": Version,
	})
}

// RegisterRoutes registers all API routes. A nil redis client disables rate
// limiting.
func RegisterRoutes(router *gin.Engine, meals service.IMealService, redisClient *redis.Client) {
	router.GET("/health", HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var searchLimiter, ratingLimiter *middleware.RateLimiter
	if redisClient != nil {
		searchLimiter = middleware.NewSearchRateLimiter(redisClient)
		ratingLimiter = middleware.NewRatingRateLimiter(redisClient)
	}

	v1 := router.Group("/api/v1")
	NewMealHandler(meals, searchLimiter, ratingLimiter).RegisterRoutes(v1)
}
