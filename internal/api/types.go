package api

import "github.com/pageza/smartmeal/backend/internal/service"

// RateRequest is the body of POST /meals/:id/rating.
type RateRequest struct {
	Stars *int `json:"stars" binding:"required"`
}

// MealsResponse wraps a list of meals.
type MealsResponse struct {
	Meals []service.MealView `json:"meals"`
	Count int                `json:"count"`
}

// ScoresResponse lists rated meals by composite score, best first.
type ScoresResponse struct {
	Meals []service.DishOfTheDay `json:"meals"`
	Count int                    `json:"count"`
}

// PricingResponse lists the rating multipliers in effect.
type PricingResponse struct {
	Multipliers service.PricingTable `json:"multipliers"`
}

// ExportResponse reports where an overview was written.
type ExportResponse struct {
	Key string `json:"key"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func mealsResponse(meals []service.MealView) MealsResponse {
	if meals == nil {
		meals = []service.MealView{}
	}
	return MealsResponse{Meals: meals, Count: len(meals)}
}
