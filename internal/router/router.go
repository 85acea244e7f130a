package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/smartmeal/backend/config"
	"github.com/pageza/smartmeal/backend/internal/api"
	"github.com/pageza/smartmeal/backend/internal/middleware"
	"github.com/pageza/smartmeal/backend/internal/service"
)

// SetupRouter configures the application routes
func SetupRouter(cfg *config.Config, meals service.IMealService, redisClient *redis.Client) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	api.RegisterRoutes(router, meals, redisClient)
	return router
}
