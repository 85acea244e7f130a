package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/pageza/smartmeal/backend/internal/model"
)

// PricingTable maps a star rating to the factor applied to a meal's base price.
type PricingTable map[int]float64

// DefaultPricingTable discounts poorly rated meals and charges a premium for
// five-star ones.
func DefaultPricingTable() PricingTable {
	return PricingTable{1: 0.9, 2: 0.9, 3: 1.0, 4: 1.0, 5: 1.2}
}

// Validate checks that every rating has a non-negative multiplier and that the
// multipliers never decrease as the rating goes up.
func (t PricingTable) Validate() error {
	prev := 0.0
	for r := model.MinRating; r <= model.MaxRating; r++ {
		m, ok := t[r]
		if !ok {
			return fmt.Errorf("pricing table has no multiplier for rating %d", r)
		}
		if m < 0 || math.IsNaN(m) || math.IsInf(m, 0) {
			return fmt.Errorf("pricing table multiplier for rating %d must be a non-negative number, got %v", r, m)
		}
		if m < prev {
			return fmt.Errorf("pricing table must be non-decreasing: rating %d has %v, below %v", r, m, prev)
		}
		prev = m
	}
	for r := range t {
		if r < model.MinRating || r > model.MaxRating {
			return fmt.Errorf("pricing table has multiplier for unknown rating %d", r)
		}
	}
	return nil
}

// Ratings returns the table's ratings in ascending order.
func (t PricingTable) Ratings() []int {
	out := make([]int, 0, len(t))
	for r := range t {
		out = append(out, r)
	}
	sort.Ints(out)
	return out
}

// PricingEngine applies ratings to meals and derives displayed prices.
type PricingEngine struct {
	table PricingTable
}

// NewPricingEngine validates the table and returns an engine using it.
func NewPricingEngine(table PricingTable) (*PricingEngine, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	cp := make(PricingTable, len(table))
	for k, v := range table {
		cp[k] = v
	}
	return &PricingEngine{table: cp}, nil
}

// Table returns a copy of the engine's multiplier table.
func (e *PricingEngine) Table() PricingTable {
	cp := make(PricingTable, len(e.table))
	for k, v := range e.table {
		cp[k] = v
	}
	return cp
}

// Rate overwrites the meal's rating. Stars outside [1,5] are rejected and
// leave the meal untouched.
func (e *PricingEngine) Rate(meal *model.Meal, stars int) error {
	if err := ValidateStars(stars); err != nil {
		return err
	}
	meal.Rating = &stars
	return nil
}

// Multiplier returns the factor for a rating; unrated meals use 1.
func (e *PricingEngine) Multiplier(rating *int) float64 {
	if rating == nil {
		return 1
	}
	if m, ok := e.table[*rating]; ok {
		return m
	}
	return 1
}

// Price is the displayed price: base price times the rating multiplier,
// rounded to cents.
func (e *PricingEngine) Price(meal *model.Meal) float64 {
	base := meal.BasePrice
	if base <= 0 || math.IsNaN(base) {
		return 0
	}
	return roundCents(base * e.Multiplier(meal.Rating))
}

// ValidateStars returns an *InvalidRatingError for stars outside [1,5].
func ValidateStars(stars int) error {
	if stars < model.MinRating || stars > model.MaxRating {
		return &InvalidRatingError{Stars: stars}
	}
	return nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
