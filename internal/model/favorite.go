package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MealFavorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	MealID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"meal_id"`
}

func (MealFavorite) TableName() string {
	return "meal_favorites"
}

func (f *MealFavorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
