package service

import (
	"context"

	"github.com/pageza/smartmeal/backend/internal/model"
)

// RecipeSource searches the upstream recipe API.
type RecipeSource interface {
	Search(ctx context.Context, query string, filters SearchFilters) ([]model.Meal, error)
}

// SimilarSource finds upstream recipes similar to a known one.
type SimilarSource interface {
	Similar(ctx context.Context, sourceID int64, number int) ([]model.Meal, error)
}

// IMealService defines the interface for meal operations
type IMealService interface {
	Search(ctx context.Context, query string, filters SearchFilters) ([]MealView, error)
	Get(ctx context.Context, id string) (*MealView, error)
	List(ctx context.Context, ratedOnly bool) ([]MealView, error)
	Nutrition(ctx context.Context, id string) (*NutritionFacts, error)
	Rate(ctx context.Context, id string, stars int) (*MealView, error)
	Price(ctx context.Context, id string) (*PriceQuote, error)
	PricingTable() PricingTable
	Favorite(ctx context.Context, id string) (*MealView, error)
	Unfavorite(ctx context.Context, id string) error
	Favorites(ctx context.Context) ([]MealView, error)
	Surprise(ctx context.Context) (*MealView, error)
	DishOfTheDay(ctx context.Context) (*DishOfTheDay, error)
	RankedMeals(ctx context.Context) ([]DishOfTheDay, error)
	ExportOverview(ctx context.Context) (string, error)
}

var _ IMealService = (*MealService)(nil)
