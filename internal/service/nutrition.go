package service

import (
	"math"

	"github.com/pageza/smartmeal/backend/internal/model"
)

// Energy density of the macronutrients, kcal per gram.
const (
	kcalPerGramProtein      = 4
	kcalPerGramCarbohydrate = 4
	kcalPerGramFat          = 9
)

// MacroBreakdown splits a meal's energy across its macronutrients.
type MacroBreakdown struct {
	ProteinKcal         float64 `json:"protein_kcal"`
	CarbohydrateKcal    float64 `json:"carbohydrate_kcal"`
	FatKcal             float64 `json:"fat_kcal"`
	TotalKcal           float64 `json:"total_kcal"`
	ProteinPercent      float64 `json:"protein_percent"`
	CarbohydratePercent float64 `json:"carbohydrate_percent"`
	FatPercent          float64 `json:"fat_percent"`
}

// NutritionPresenter turns a meal's nutrition snapshot into display values.
type NutritionPresenter struct{}

// NewNutritionPresenter creates a new NutritionPresenter
func NewNutritionPresenter() *NutritionPresenter {
	return &NutritionPresenter{}
}

// Format returns protein, calories, fat and carbohydrate, never negative.
// The map is always complete; when the upstream omitted fields they are
// reported zero and a *MissingDataError names them.
func (p *NutritionPresenter) Format(meal *model.Meal) (map[string]float64, error) {
	out := make(map[string]float64, len(model.NutrientNames))
	var missing []string
	for _, name := range model.NutrientNames {
		v, ok := meal.Nutrition.Value(name)
		if !ok {
			missing = append(missing, name)
		}
		out[name] = nonNegative(v)
	}
	if len(missing) > 0 {
		return out, &MissingDataError{Meal: meal.Name, Fields: missing}
	}
	return out, nil
}

// Breakdown computes the kcal contributed by each macronutrient.
func (p *NutritionPresenter) Breakdown(meal *model.Meal) MacroBreakdown {
	protein, _ := meal.Nutrition.Value(model.NutrientProtein)
	carbs, _ := meal.Nutrition.Value(model.NutrientCarbohydrate)
	fat, _ := meal.Nutrition.Value(model.NutrientFat)

	b := MacroBreakdown{
		ProteinKcal:      nonNegative(protein) * kcalPerGramProtein,
		CarbohydrateKcal: nonNegative(carbs) * kcalPerGramCarbohydrate,
		FatKcal:          nonNegative(fat) * kcalPerGramFat,
	}
	b.TotalKcal = b.ProteinKcal + b.CarbohydrateKcal + b.FatKcal
	if b.TotalKcal > 0 {
		b.ProteinPercent = 100 * b.ProteinKcal / b.TotalKcal
		b.CarbohydratePercent = 100 * b.CarbohydrateKcal / b.TotalKcal
		b.FatPercent = 100 * b.FatKcal / b.TotalKcal
	}
	return b
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
