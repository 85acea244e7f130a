// Package store keeps ingested meals, their ratings and favorites.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pageza/smartmeal/backend/internal/model"
)

// ErrNotFound is returned when no meal has the requested id.
var ErrNotFound = errors.New("meal not found")

// ListOptions narrows List.
type ListOptions struct {
	RatedOnly bool
}

// MealStore holds meals keyed by id and by upstream source id.
//
// Upsert matches on SourceID: a known meal keeps its id and rating and has
// its upstream fields refreshed; an unknown one is created. The passed
// meals are updated in place with the stored id, rating and timestamps.
type MealStore interface {
	Upsert(ctx context.Context, meals []*model.Meal) error
	Get(ctx context.Context, id uuid.UUID) (*model.Meal, error)
	List(ctx context.Context, opts ListOptions) ([]*model.Meal, error)
	SetRating(ctx context.Context, id uuid.UUID, stars int) (*model.Meal, error)
	AddFavorite(ctx context.Context, id uuid.UUID) error
	RemoveFavorite(ctx context.Context, id uuid.UUID) error
	Favorites(ctx context.Context) ([]*model.Meal, error)
}
