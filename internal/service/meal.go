package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/smartmeal/backend/internal/model"
	"github.com/pageza/smartmeal/backend/internal/store"
)

// surpriseCandidates is how many similar recipes Surprise asks for.
const surpriseCandidates = 6

// MealView is a meal as shown to the user: the stored record, its formatted
// nutrition facts and its displayed price.
type MealView struct {
	model.Meal
	NutritionFacts map[string]float64 `json:"nutrition_facts"`
	Price          float64            `json:"price"`
	Currency       string             `json:"currency"`
}

// NutritionFacts is the nutrition panel of one meal.
type NutritionFacts struct {
	MealID    uuid.UUID          `json:"meal_id"`
	Name      string             `json:"name"`
	Facts     map[string]float64 `json:"facts"`
	Breakdown MacroBreakdown     `json:"breakdown"`
	Missing   []string           `json:"missing,omitempty"`
}

// PriceQuote explains how a displayed price was derived.
type PriceQuote struct {
	MealID     uuid.UUID `json:"meal_id"`
	BasePrice  float64   `json:"base_price"`
	Rating     *int      `json:"rating,omitempty"`
	Multiplier float64   `json:"multiplier"`
	Price      float64   `json:"price"`
	Currency   string    `json:"currency"`
}

// MealService ties the recipe source, the meal store, the nutrition
// presenter and the pricing engine together.
type MealService struct {
	source    RecipeSource
	similar   SimilarSource
	store     store.MealStore
	pricing   *PricingEngine
	presenter *NutritionPresenter
	exporter  *OverviewExporter
	currency  string
	pick      func(n int) int
	now       func() time.Time
}

// MealServiceOption customizes a MealService.
type MealServiceOption func(*MealService)

// WithSimilarSource sets the source used by Surprise. By default the recipe
// source is used when it implements SimilarSource.
func WithSimilarSource(src SimilarSource) MealServiceOption {
	return func(s *MealService) {
		s.similar = src
	}
}

// WithExporter enables ExportOverview.
func WithExporter(e *OverviewExporter) MealServiceOption {
	return func(s *MealService) {
		s.exporter = e
	}
}

// WithCurrency sets the currency reported next to prices.
func WithCurrency(currency string) MealServiceOption {
	return func(s *MealService) {
		if currency != "" {
			s.currency = currency
		}
	}
}

// WithPicker replaces the random choice used by Surprise; pick(n) must
// return a value in [0,n).
func WithPicker(pick func(n int) int) MealServiceOption {
	return func(s *MealService) {
		s.pick = pick
	}
}

// WithClock replaces time.Now for exports.
func WithClock(now func() time.Time) MealServiceOption {
	return func(s *MealService) {
		s.now = now
	}
}

// NewMealService creates a new MealService instance
func NewMealService(source RecipeSource, st store.MealStore, pricing *PricingEngine, opts ...MealServiceOption) *MealService {
	s := &MealService{
		source:    source,
		store:     st,
		pricing:   pricing,
		presenter: NewNutritionPresenter(),
		currency:  "CHF",
		pick:      rand.IntN,
		now:       time.Now,
	}
	if sim, ok := source.(SimilarSource); ok {
		s.similar = sim
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search queries the recipe source, drops meals outside the filters, stores
// the rest and returns them in upstream order.
func (s *MealService) Search(ctx context.Context, query string, filters SearchFilters) ([]MealView, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	found, err := s.source.Search(ctx, query, filters)
	if err != nil {
		return nil, err
	}
	found = filters.Apply(found)

	meals := make([]*model.Meal, len(found))
	for i := range found {
		meals[i] = &found[i]
	}
	if err := s.store.Upsert(ctx, meals); err != nil {
		return nil, fmt.Errorf("failed to store search results: %w", err)
	}

	slog.Debug("search completed", "query", query, "results", len(meals))
	return s.views(meals), nil
}

// Get returns one stored meal.
func (s *MealService) Get(ctx context.Context, id string) (*MealView, error) {
	meal, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.view(meal)
	return &v, nil
}

// List returns stored meals in ingestion order.
func (s *MealService) List(ctx context.Context, ratedOnly bool) ([]MealView, error) {
	meals, err := s.store.List(ctx, store.ListOptions{RatedOnly: ratedOnly})
	if err != nil {
		return nil, err
	}
	return s.views(meals), nil
}

// Nutrition returns the nutrition panel of a meal. Missing upstream fields
// are reported as zero and listed in Missing.
func (s *MealService) Nutrition(ctx context.Context, id string) (*NutritionFacts, error) {
	meal, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	facts, err := s.presenter.Format(meal)
	nf := &NutritionFacts{
		MealID:    meal.ID,
		Name:      meal.Name,
		Facts:     facts,
		Breakdown: s.presenter.Breakdown(meal),
	}
	var missing *MissingDataError
	if errors.As(err, &missing) {
		nf.Missing = missing.Fields
	}
	return nf, nil
}

// Rate stores a 1-5 star rating for a meal, replacing any previous one.
func (s *MealService) Rate(ctx context.Context, id string, stars int) (*MealView, error) {
	if err := ValidateStars(stars); err != nil {
		return nil, err
	}
	meal, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.pricing.Rate(meal, stars); err != nil {
		return nil, err
	}

	stored, err := s.store.SetRating(ctx, meal.ID, *meal.Rating)
	if err != nil {
		return nil, err
	}

	v := s.view(stored)
	slog.Info("meal rated", "meal_id", stored.ID, "stars", stars, "price", v.Price)
	return &v, nil
}

// Price quotes the displayed price of a meal.
func (s *MealService) Price(ctx context.Context, id string) (*PriceQuote, error) {
	meal, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PriceQuote{
		MealID:     meal.ID,
		BasePrice:  meal.BasePrice,
		Rating:     meal.Rating,
		Multiplier: s.pricing.Multiplier(meal.Rating),
		Price:      s.pricing.Price(meal),
		Currency:   s.currency,
	}, nil
}

// PricingTable returns the configured multipliers.
func (s *MealService) PricingTable() PricingTable {
	return s.pricing.Table()
}

// ExportOverview uploads the rated-meal overview and returns the object key.
func (s *MealService) ExportOverview(ctx context.Context) (string, error) {
	if s.exporter == nil {
		return "", ErrExportDisabled
	}
	rated, err := s.List(ctx, true)
	if err != nil {
		return "", err
	}

	overview := &Overview{GeneratedAt: s.now(), Meals: make([]OverviewRow, 0, len(rated))}
	for _, v := range rated {
		overview.Meals = append(overview.Meals, OverviewRow{
			MealID:       v.ID.String(),
			Name:         v.Name,
			Rating:       *v.Rating,
			Calories:     v.NutritionFacts[model.NutrientCalories],
			Protein:      v.NutritionFacts[model.NutrientProtein],
			Fat:          v.NutritionFacts[model.NutrientFat],
			Carbohydrate: v.NutritionFacts[model.NutrientCarbohydrate],
			BasePrice:    v.BasePrice,
			Price:        v.Price,
			Currency:     v.Currency,
		})
	}

	key, err := s.exporter.Upload(ctx, overview)
	if err != nil {
		return "", err
	}
	slog.Info("overview exported", "key", key, "meals", len(overview.Meals))
	return key, nil
}

func (s *MealService) load(ctx context.Context, id string) (*model.Meal, error) {
	mealID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMealID, id)
	}
	return s.store.Get(ctx, mealID)
}

func (s *MealService) view(meal *model.Meal) MealView {
	facts, err := s.presenter.Format(meal)
	if err != nil {
		slog.Warn("incomplete nutrition data", "meal_id", meal.ID, "error", err)
	}
	return MealView{
		Meal:           *meal,
		NutritionFacts: facts,
		Price:          s.pricing.Price(meal),
		Currency:       s.currency,
	}
}

func (s *MealService) views(meals []*model.Meal) []MealView {
	out := make([]MealView, 0, len(meals))
	for _, m := range meals {
		out = append(out, s.view(m))
	}
	return out
}
