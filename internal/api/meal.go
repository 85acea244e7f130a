package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/smartmeal/backend/internal/middleware"
	"github.com/pageza/smartmeal/backend/internal/service"
)

// MealHandler serves the meal endpoints.
type MealHandler struct {
	meals         service.IMealService
	searchLimiter *middleware.RateLimiter
	ratingLimiter *middleware.RateLimiter
}

// NewMealHandler creates a handler. Nil limiters disable rate limiting.
func NewMealHandler(meals service.IMealService, searchLimiter, ratingLimiter *middleware.RateLimiter) *MealHandler {
	return &MealHandler{
		meals:         meals,
		searchLimiter: searchLimiter,
		ratingLimiter: ratingLimiter,
	}
}

func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup) {
	meals := router.Group("/meals")
	{
		meals.GET("", h.ListMeals)
		meals.GET("/search", h.searchLimiter.RateLimitMiddleware(), h.SearchMeals)
		meals.GET("/surprise", h.Surprise)
		meals.GET("/dish-of-the-day", h.DishOfTheDay)
		meals.GET("/scores", h.RankedMeals)
		meals.GET("/:id", h.GetMeal)
		meals.GET("/:id/nutrition", h.GetNutrition)
		meals.GET("/:id/price", h.GetPrice)
		meals.POST("/:id/rating", h.ratingLimiter.RateLimitMiddleware(), h.RateMeal)
		meals.POST("/:id/favorite", h.FavoriteMeal)
		meals.DELETE("/:id/favorite", h.UnfavoriteMeal)
	}
	router.GET("/favorites", h.ListFavorites)
	router.GET("/pricing", h.GetPricing)
	router.POST("/exports", h.ExportOverview)
}

// SearchMeals handles GET /meals/search?q=...&min_protein=...
func (h *MealHandler) SearchMeals(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		respondError(c, err)
		return
	}

	meals, err := h.meals.Search(c.Request.Context(), c.Query("q"), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mealsResponse(meals))
}

func (h *MealHandler) ListMeals(c *gin.Context) {
	ratedOnly, _ := strconv.ParseBool(c.Query("rated"))
	meals, err := h.meals.List(c.Request.Context(), ratedOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mealsResponse(meals))
}

func (h *MealHandler) GetMeal(c *gin.Context) {
	meal, err := h.meals.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *MealHandler) GetNutrition(c *gin.Context) {
	facts, err := h.meals.Nutrition(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, facts)
}

func (h *MealHandler) GetPrice(c *gin.Context) {
	quote, err := h.meals.Price(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// RateMeal handles POST /meals/:id/rating with body {"stars": n}.
func (h *MealHandler) RateMeal(c *gin.Context) {
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "stars is required"})
		return
	}

	meal, err := h.meals.Rate(c.Request.Context(), c.Param("id"), *req.Stars)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *MealHandler) FavoriteMeal(c *gin.Context) {
	meal, err := h.meals.Favorite(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *MealHandler) UnfavoriteMeal(c *gin.Context) {
	if err := h.meals.Unfavorite(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MealHandler) ListFavorites(c *gin.Context) {
	meals, err := h.meals.Favorites(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mealsResponse(meals))
}

func (h *MealHandler) Surprise(c *gin.Context) {
	meal, err := h.meals.Surprise(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *MealHandler) DishOfTheDay(c *gin.Context) {
	dish, err := h.meals.DishOfTheDay(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dish)
}

func (h *MealHandler) RankedMeals(c *gin.Context) {
	ranked, err := h.meals.RankedMeals(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ScoresResponse{Meals: ranked, Count: len(ranked)})
}

func (h *MealHandler) GetPricing(c *gin.Context) {
	c.JSON(http.StatusOK, PricingResponse{Multipliers: h.meals.PricingTable()})
}

func (h *MealHandler) ExportOverview(c *gin.Context) {
	key, err := h.meals.ExportOverview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ExportResponse{Key: key})
}

func parseFilters(c *gin.Context) (service.SearchFilters, error) {
	var f service.SearchFilters
	bounds := []struct {
		param  string
		target **float64
	}{
		{"min_protein", &f.MinProtein},
		{"max_protein", &f.MaxProtein},
		{"min_calories", &f.MinCalories},
		{"max_calories", &f.MaxCalories},
	}
	for _, b := range bounds {
		raw := c.Query(b.param)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return f, &service.FilterError{Field: b.param, Message: "must be a number"}
		}
		*b.target = &v
	}

	if raw := c.Query("number"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return f, &service.FilterError{Field: "number", Message: "must be an integer"}
		}
		f.Number = n
	}
	return f, nil
}
