package service

import (
	"math"

	"github.com/pageza/smartmeal/backend/internal/model"
)

const (
	// DefaultSearchNumber is the number of results requested when none is given.
	DefaultSearchNumber = 5
	// MaxSearchNumber caps a single upstream request.
	MaxSearchNumber = 100
)

// SearchFilters narrows a recipe search by nutrition. Nil thresholds are
// not applied.
type SearchFilters struct {
	MinProtein  *float64 `json:"min_protein,omitempty"`
	MaxProtein  *float64 `json:"max_protein,omitempty"`
	MinCalories *float64 `json:"min_calories,omitempty"`
	MaxCalories *float64 `json:"max_calories,omitempty"`
	Number      int      `json:"number,omitempty"`
}

// Validate rejects non-finite or negative thresholds and inverted ranges.
func (f SearchFilters) Validate() error {
	checks := []struct {
		field string
		v     *float64
	}{
		{"min_protein", f.MinProtein},
		{"max_protein", f.MaxProtein},
		{"min_calories", f.MinCalories},
		{"max_calories", f.MaxCalories},
	}
	for _, c := range checks {
		if c.v != nil && (math.IsNaN(*c.v) || math.IsInf(*c.v, 0)) {
			return &FilterError{Field: c.field, Message: "must be a finite number"}
		}
		if c.v != nil && *c.v < 0 {
			return &FilterError{Field: c.field, Message: "must not be negative"}
		}
	}
	if f.MinProtein != nil && f.MaxProtein != nil && *f.MinProtein > *f.MaxProtein {
		return &FilterError{Field: "min_protein", Message: "must not exceed max_protein"}
	}
	if f.MinCalories != nil && f.MaxCalories != nil && *f.MinCalories > *f.MaxCalories {
		return &FilterError{Field: "min_calories", Message: "must not exceed max_calories"}
	}
	if f.Number < 0 {
		return &FilterError{Field: "number", Message: "must not be negative"}
	}
	return nil
}

// Limit resolves the requested result count.
func (f SearchFilters) Limit(def int) int {
	n := f.Number
	if n == 0 {
		n = def
	}
	if n <= 0 {
		n = DefaultSearchNumber
	}
	if n > MaxSearchNumber {
		n = MaxSearchNumber
	}
	return n
}

// Match reports whether a meal satisfies every threshold. A nutrient the
// upstream omitted counts as zero.
func (f SearchFilters) Match(meal *model.Meal) bool {
	protein, _ := meal.Nutrition.Value(model.NutrientProtein)
	calories, _ := meal.Nutrition.Value(model.NutrientCalories)
	if f.MinProtein != nil && protein < *f.MinProtein {
		return false
	}
	if f.MaxProtein != nil && protein > *f.MaxProtein {
		return false
	}
	if f.MinCalories != nil && calories < *f.MinCalories {
		return false
	}
	if f.MaxCalories != nil && calories > *f.MaxCalories {
		return false
	}
	return true
}

// Apply keeps the meals that Match, preserving order.
func (f SearchFilters) Apply(meals []model.Meal) []model.Meal {
	out := make([]model.Meal, 0, len(meals))
	for i := range meals {
		if f.Match(&meals[i]) {
			out = append(out, meals[i])
		}
	}
	return out
}
