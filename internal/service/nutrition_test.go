package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/smartmeal/backend/internal/model"
)

func TestFormatCompleteMeal(t *testing.T) {
	meal := &model.Meal{
		Name: "Chicken Pasta",
		Nutrition: model.Nutrition{
			Protein:      model.Float(40),
			Calories:     model.Float(650),
			Fat:          model.Float(20),
			Carbohydrate: model.Float(70),
		},
	}

	facts, err := NewNutritionPresenter().Format(meal)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{
		"protein":      40,
		"calories":     650,
		"fat":          20,
		"carbohydrate": 70,
	}, facts)
}

func TestFormatMissingFieldsSubstitutesZero(t *testing.T) {
	meal := &model.Meal{
		Name:      "Chickpea Curry",
		Nutrition: model.Nutrition{Protein: model.Float(18), Calories: model.Float(430)},
	}

	facts, err := NewNutritionPresenter().Format(meal)

	var missing *MissingDataError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"fat", "carbohydrate"}, missing.Fields)
	assert.Len(t, facts, 4)
	assert.Zero(t, facts["fat"])
	assert.Zero(t, facts["carbohydrate"])
	assert.Equal(t, 18.0, facts["protein"])
}

func TestFormatClampsNegativeValues(t *testing.T) {
	meal := &model.Meal{
		Nutrition: model.Nutrition{
			Protein:      model.Float(-3),
			Calories:     model.Float(100),
			Fat:          model.Float(1),
			Carbohydrate: model.Float(2),
		},
	}

	facts, err := NewNutritionPresenter().Format(meal)
	require.NoError(t, err)
	for name, v := range facts {
		assert.GreaterOrEqual(t, v, 0.0, name)
	}
	assert.Zero(t, facts["protein"])
}

func TestBreakdown(t *testing.T) {
	meal := &model.Meal{
		Nutrition: model.Nutrition{
			Protein:      model.Float(25),
			Fat:          model.Float(10),
			Carbohydrate: model.Float(50),
		},
	}

	b := NewNutritionPresenter().Breakdown(meal)
	assert.Equal(t, 100.0, b.ProteinKcal)
	assert.Equal(t, 90.0, b.FatKcal)
	assert.Equal(t, 200.0, b.CarbohydrateKcal)
	assert.Equal(t, 390.0, b.TotalKcal)
	assert.InDelta(t, 100, b.ProteinPercent+b.FatPercent+b.CarbohydratePercent, 1e-9)
}

func TestBreakdownEmptyMeal(t *testing.T) {
	b := NewNutritionPresenter().Breakdown(&model.Meal{})
	assert.Zero(t, b.TotalKcal)
	assert.Zero(t, b.ProteinPercent)
}
