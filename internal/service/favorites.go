package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pageza/smartmeal/backend/internal/model"
)

// Favorite marks a stored meal as a favorite. Favoriting twice is a no-op.
func (s *MealService) Favorite(ctx context.Context, id string) (*MealView, error) {
	meal, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.AddFavorite(ctx, meal.ID); err != nil {
		return nil, err
	}
	v := s.view(meal)
	return &v, nil
}

// Unfavorite removes a meal from the favorites.
func (s *MealService) Unfavorite(ctx context.Context, id string) error {
	meal, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	return s.store.RemoveFavorite(ctx, meal.ID)
}

// Favorites returns the favorite meals in the order they were added.
func (s *MealService) Favorites(ctx context.Context) ([]MealView, error) {
	favs, err := s.store.Favorites(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(favs), nil
}

// Surprise picks a random favorite, asks upstream for similar recipes and
// returns one of them that is not already a favorite. The suggestion is
// stored so it can be rated and priced like any search result.
func (s *MealService) Surprise(ctx context.Context) (*MealView, error) {
	favs, err := s.store.Favorites(ctx)
	if err != nil {
		return nil, err
	}
	if len(favs) == 0 {
		return nil, ErrNoFavorites
	}
	if s.similar == nil {
		return nil, fmt.Errorf("%w: recipe source does not support similar recipes", ErrNoSimilar)
	}

	seed := favs[s.pick(len(favs))]
	found, err := s.similar.Similar(ctx, seed.SourceID, surpriseCandidates)
	if err != nil {
		return nil, err
	}

	known := make(map[int64]struct{}, len(favs))
	for _, f := range favs {
		known[f.SourceID] = struct{}{}
	}
	candidates := make([]model.Meal, 0, len(found))
	for _, m := range found {
		if _, ok := known[m.SourceID]; !ok {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoSimilar
	}

	chosen := candidates[s.pick(len(candidates))]
	if err := s.store.Upsert(ctx, []*model.Meal{&chosen}); err != nil {
		return nil, fmt.Errorf("failed to store suggestion: %w", err)
	}

	slog.Info("surprise suggested", "seed", seed.Name, "meal", chosen.Name)
	v := s.view(&chosen)
	return &v, nil
}
