package service

import (
	"context"
	"sort"

	"github.com/pageza/smartmeal/backend/internal/model"
)

// Weights of the dish-of-the-day score. Rating counts positively, price and
// calories negatively.
const (
	ratingWeight   = 0.5
	priceWeight    = 0.3
	caloriesWeight = 0.2
)

// DishOfTheDay is a rated meal with its composite score.
type DishOfTheDay struct {
	Meal  MealView `json:"meal"`
	Score float64  `json:"score"`
}

// DishOfTheDay ranks every rated meal and returns the best one. Ties keep
// the meal that was stored first.
func (s *MealService) DishOfTheDay(ctx context.Context) (*DishOfTheDay, error) {
	ranked, err := s.RankedMeals(ctx)
	if err != nil {
		return nil, err
	}
	return &ranked[0], nil
}

// RankedMeals scores every rated meal and returns them best first. Meals
// with equal scores keep their stored order.
func (s *MealService) RankedMeals(ctx context.Context) ([]DishOfTheDay, error) {
	rated, err := s.List(ctx, true)
	if err != nil {
		return nil, err
	}
	if len(rated) == 0 {
		return nil, ErrNoRatedMeals
	}

	scores := scoreMeals(rated)
	ranked := make([]DishOfTheDay, len(rated))
	for i := range rated {
		ranked[i] = DishOfTheDay{Meal: rated[i], Score: roundCents(scores[i])}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked, nil
}

func scoreMeals(meals []MealView) []float64 {
	ratings := make([]float64, len(meals))
	prices := make([]float64, len(meals))
	calories := make([]float64, len(meals))
	for i, m := range meals {
		if m.Rating != nil {
			ratings[i] = float64(*m.Rating)
		}
		prices[i] = m.Price
		calories[i] = m.NutritionFacts[model.NutrientCalories]
	}

	nr := normalize(ratings, false)
	np := normalize(prices, true)
	nc := normalize(calories, true)
	scores := make([]float64, len(meals))
	for i := range meals {
		scores[i] = ratingWeight*nr[i] + priceWeight*np[i] + caloriesWeight*nc[i]
	}
	return scores
}

// normalize scales values onto [0,1], inverted when reverse is set so that
// lower values score higher. A constant series maps to 1 either way.
func normalize(values []float64, reverse bool) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	for i, v := range values {
		switch {
		case hi == lo:
			out[i] = 1
		case reverse:
			out[i] = 1 - (v-lo)/(hi-lo)
		default:
			out[i] = (v - lo) / (hi - lo)
		}
	}
	return out
}
