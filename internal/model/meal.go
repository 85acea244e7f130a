package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 5
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Meal is a recipe ingested from the upstream API together with the
// user's rating of it.
type Meal struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	SourceID     int64            `gorm:"uniqueIndex;not null" json:"source_id"`
	Name         string           `gorm:"size:255;not null" json:"name"`
	ImageURL     string           `gorm:"size:512" json:"image_url,omitempty"`
	BasePrice    float64          `gorm:"not null;default:0" json:"base_price"`
	Nutrition    Nutrition        `gorm:"embedded" json:"nutrition"`
	Instructions JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"instructions,omitempty"`
	Rating       *int             `json:"rating,omitempty"`
	// Seq is the ingestion position; timestamps alone can tie within a batch.
	Seq int64 `gorm:"not null;default:0;index" json:"-"`
}

// BeforeCreate assigns an id when the caller did not.
func (m *Meal) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Rated reports whether the meal carries a rating.
func (m *Meal) Rated() bool {
	return m.Rating != nil
}

// Clone returns a deep copy so callers can't mutate shared state.
func (m *Meal) Clone() *Meal {
	c := *m
	if m.Rating != nil {
		r := *m.Rating
		c.Rating = &r
	}
	c.Nutrition = Nutrition{
		Protein:      clonePtr(m.Nutrition.Protein),
		Calories:     clonePtr(m.Nutrition.Calories),
		Fat:          clonePtr(m.Nutrition.Fat),
		Carbohydrate: clonePtr(m.Nutrition.Carbohydrate),
	}
	if m.Instructions != nil {
		c.Instructions = append(JSONBStringArray{}, m.Instructions...)
	}
	return &c
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
