package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/smartmeal/backend/internal/model"
)

// GormStore is a MealStore over a sqlite or postgres database. The schema
// must already exist (see database.RunMigrations and cmd/migrate).
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GormStore instance
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Upsert(ctx context.Context, meals []*model.Meal) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq int64
		if err := tx.Model(&model.Meal{}).Select("COALESCE(MAX(seq), 0)").Scan(&seq).Error; err != nil {
			return fmt.Errorf("failed to read meal sequence: %w", err)
		}
		for _, m := range meals {
			var existing model.Meal
			err := tx.Where("source_id = ?", m.SourceID).First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				seq++
				m.Seq = seq
				if err := tx.Create(m).Error; err != nil {
					return fmt.Errorf("failed to create meal %d: %w", m.SourceID, err)
				}
			case err != nil:
				return fmt.Errorf("failed to look up meal %d: %w", m.SourceID, err)
			default:
				m.ID = existing.ID
				m.Rating = existing.Rating
				m.CreatedAt = existing.CreatedAt
				m.Seq = existing.Seq
				if err := tx.Save(m).Error; err != nil {
					return fmt.Errorf("failed to update meal %d: %w", m.SourceID, err)
				}
			}
		}
		return nil
	})
}

func (s *GormStore) Get(ctx context.Context, id uuid.UUID) (*model.Meal, error) {
	var meal model.Meal
	if err := s.db.WithContext(ctx).First(&meal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}
	return &meal, nil
}

func (s *GormStore) List(ctx context.Context, opts ListOptions) ([]*model.Meal, error) {
	query := s.db.WithContext(ctx).Order("seq ASC").Order("created_at ASC")
	if opts.RatedOnly {
		query = query.Where("rating IS NOT NULL")
	}

	var meals []*model.Meal
	if err := query.Find(&meals).Error; err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	return meals, nil
}

func (s *GormStore) SetRating(ctx context.Context, id uuid.UUID, stars int) (*model.Meal, error) {
	result := s.db.WithContext(ctx).Model(&model.Meal{}).Where("id = ?", id).Update("rating", stars)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update rating: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *GormStore) AddFavorite(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	fav := model.MealFavorite{MealID: id}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "meal_id"}}, DoNothing: true}).
		Create(&fav).Error
	if err != nil {
		return fmt.Errorf("failed to favorite meal: %w", err)
	}
	return nil
}

func (s *GormStore) RemoveFavorite(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("meal_id = ?", id).Delete(&model.MealFavorite{}).Error; err != nil {
		return fmt.Errorf("failed to unfavorite meal: %w", err)
	}
	return nil
}

func (s *GormStore) Favorites(ctx context.Context) ([]*model.Meal, error) {
	var meals []*model.Meal
	err := s.db.WithContext(ctx).
		Joins("JOIN meal_favorites ON meal_favorites.meal_id = meals.id").
		Order("meal_favorites.created_at ASC").
		Find(&meals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return meals, nil
}
