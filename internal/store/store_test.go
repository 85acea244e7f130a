package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/smartmeal/backend/internal/model"
	"github.com/pageza/smartmeal/backend/internal/store"
	"github.com/pageza/smartmeal/backend/internal/testhelpers"
)

func newMeal(sourceID int64, name string, protein float64) *model.Meal {
	return &model.Meal{
		SourceID:     sourceID,
		Name:         name,
		BasePrice:    5.5,
		Nutrition:    model.Nutrition{Protein: model.Float(protein), Calories: model.Float(500)},
		Instructions: model.JSONBStringArray{"Cook.", "Serve."},
	}
}

func runStoreTests(t *testing.T, newStore func(t *testing.T) store.MealStore) {
	ctx := context.Background()

	t.Run("upsert assigns ids and keeps order", func(t *testing.T) {
		s := newStore(t)
		a, b := newMeal(1, "A", 10), newMeal(2, "B", 20)
		require.NoError(t, s.Upsert(ctx, []*model.Meal{a}))
		require.NoError(t, s.Upsert(ctx, []*model.Meal{b}))
		assert.NotEqual(t, uuid.Nil, a.ID)
		assert.NotEqual(t, a.ID, b.ID)

		all, err := s.List(ctx, store.ListOptions{})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "A", all[0].Name)
		assert.Equal(t, "B", all[1].Name)
		assert.Equal(t, model.JSONBStringArray{"Cook.", "Serve."}, all[0].Instructions)
		assert.Equal(t, 10.0, *all[0].Nutrition.Protein)
		assert.Nil(t, all[0].Nutrition.Fat)
	})

	t.Run("list keeps ingestion order for equal timestamps", func(t *testing.T) {
		s := newStore(t)
		created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		var batch []*model.Meal
		for i := 0; i < 12; i++ {
			m := newMeal(int64(100+i), fmt.Sprintf("meal %02d", 11-i), 10)
			m.CreatedAt = created
			batch = append(batch, m)
		}
		require.NoError(t, s.Upsert(ctx, batch[:6]))
		require.NoError(t, s.Upsert(ctx, batch[6:]))
		// refreshing a known meal must not move it
		again := newMeal(100, "meal 11", 10)
		again.CreatedAt = created
		require.NoError(t, s.Upsert(ctx, []*model.Meal{again}))

		all, err := s.List(ctx, store.ListOptions{})
		require.NoError(t, err)
		require.Len(t, all, len(batch))
		for i, m := range all {
			assert.Equal(t, batch[i].ID, m.ID, "position %d", i)
		}
	})

	t.Run("upsert refreshes known meals and keeps rating", func(t *testing.T) {
		s := newStore(t)
		a := newMeal(1, "A", 10)
		require.NoError(t, s.Upsert(ctx, []*model.Meal{a}))
		_, err := s.SetRating(ctx, a.ID, 4)
		require.NoError(t, err)

		again := newMeal(1, "A renamed", 12)
		require.NoError(t, s.Upsert(ctx, []*model.Meal{again}))
		assert.Equal(t, a.ID, again.ID)
		require.NotNil(t, again.Rating)
		assert.Equal(t, 4, *again.Rating)

		got, err := s.Get(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "A renamed", got.Name)
		assert.Equal(t, 12.0, *got.Nutrition.Protein)
		assert.Equal(t, 4, *got.Rating)

		all, err := s.List(ctx, store.ListOptions{})
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("get unknown", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.SetRating(ctx, uuid.New(), 3)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.ErrorIs(t, s.AddFavorite(ctx, uuid.New()), store.ErrNotFound)
	})

	t.Run("rating overwrite and rated filter", func(t *testing.T) {
		s := newStore(t)
		a, b := newMeal(1, "A", 10), newMeal(2, "B", 20)
		require.NoError(t, s.Upsert(ctx, []*model.Meal{a, b}))

		_, err := s.SetRating(ctx, b.ID, 5)
		require.NoError(t, err)
		got, err := s.SetRating(ctx, b.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, *got.Rating)

		rated, err := s.List(ctx, store.ListOptions{RatedOnly: true})
		require.NoError(t, err)
		require.Len(t, rated, 1)
		assert.Equal(t, b.ID, rated[0].ID)
	})

	t.Run("favorites", func(t *testing.T) {
		s := newStore(t)
		a, b := newMeal(1, "A", 10), newMeal(2, "B", 20)
		require.NoError(t, s.Upsert(ctx, []*model.Meal{a, b}))

		require.NoError(t, s.AddFavorite(ctx, b.ID))
		require.NoError(t, s.AddFavorite(ctx, a.ID))
		require.NoError(t, s.AddFavorite(ctx, b.ID))

		favs, err := s.Favorites(ctx)
		require.NoError(t, err)
		require.Len(t, favs, 2)
		assert.Equal(t, "B", favs[0].Name)
		assert.Equal(t, "A", favs[1].Name)

		require.NoError(t, s.RemoveFavorite(ctx, b.ID))
		favs, err = s.Favorites(ctx)
		require.NoError(t, err)
		require.Len(t, favs, 1)
		assert.Equal(t, a.ID, favs[0].ID)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) store.MealStore {
		return store.NewMemoryStore()
	})
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := store.NewMemoryStore()
	a := newMeal(1, "A", 10)
	require.NoError(t, s.Upsert(context.Background(), []*model.Meal{a}))

	got, err := s.Get(context.Background(), a.ID)
	require.NoError(t, err)
	got.Name = "changed"
	*got.Nutrition.Protein = 99

	again, err := s.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", again.Name)
	assert.Equal(t, 10.0, *again.Nutrition.Protein)
}

func TestGormStoreSQLite(t *testing.T) {
	runStoreTests(t, func(t *testing.T) store.MealStore {
		return store.NewGormStore(testhelpers.NewSQLiteDB(t))
	})
}

func TestGormStorePostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	pg := testhelpers.SetupPostgres(t)
	require.NoError(t, pg.Gorm.AutoMigrate(&model.Meal{}, &model.MealFavorite{}))

	runStoreTests(t, func(t *testing.T) store.MealStore {
		require.NoError(t, pg.Gorm.Exec("TRUNCATE meal_favorites, meals").Error)
		return store.NewGormStore(pg.Gorm)
	})
}
