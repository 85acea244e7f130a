package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/smartmeal/backend/internal/model"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1}, normalize([]float64{2, 4, 6}, false))
	assert.Equal(t, []float64{1, 0.5, 0}, normalize([]float64{2, 4, 6}, true))
	assert.Equal(t, []float64{1, 1}, normalize([]float64{3, 3}, false))
	assert.Empty(t, normalize(nil, true))
}

func TestNormalizeConstantSeriesIsFavorableWhenReversed(t *testing.T) {
	assert.Equal(t, []float64{1, 1}, normalize([]float64{9.5, 9.5}, true))
}

func TestScoreMealsConstantPriceAndCalories(t *testing.T) {
	views := []MealView{
		{Meal: model.Meal{Rating: intPtr(5)}, Price: 10, NutritionFacts: map[string]float64{"calories": 500}},
		{Meal: model.Meal{Rating: intPtr(3)}, Price: 10, NutritionFacts: map[string]float64{"calories": 500}},
	}

	scores := scoreMeals(views)
	assert.InDelta(t, 1.0, scores[0], 1e-9)
	assert.InDelta(t, 0.5, scores[1], 1e-9)
}

func TestScoreMealsPrefersRatedCheapLight(t *testing.T) {
	views := []MealView{
		{Meal: model.Meal{Rating: intPtr(5)}, Price: 12, NutritionFacts: map[string]float64{"calories": 800}},
		{Meal: model.Meal{Rating: intPtr(5)}, Price: 6, NutritionFacts: map[string]float64{"calories": 400}},
		{Meal: model.Meal{Rating: intPtr(1)}, Price: 6, NutritionFacts: map[string]float64{"calories": 400}},
	}

	scores := scoreMeals(views)
	assert.InDelta(t, 0.5, scores[0], 1e-9)
	assert.InDelta(t, 1.0, scores[1], 1e-9)
	assert.InDelta(t, 0.5, scores[2], 1e-9)
}
