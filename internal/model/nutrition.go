package model

// Nutrition is the nutrition snapshot taken from an upstream recipe.
// A nil field means the upstream response did not include it.
type Nutrition struct {
	Protein      *float64 `gorm:"column:protein" json:"protein,omitempty"`
	Calories     *float64 `gorm:"column:calories" json:"calories,omitempty"`
	Fat          *float64 `gorm:"column:fat" json:"fat,omitempty"`
	Carbohydrate *float64 `gorm:"column:carbohydrate" json:"carbohydrate,omitempty"`
}

// Nutrient names used as keys when nutrition is presented.
const (
	NutrientProtein      = "protein"
	NutrientCalories     = "calories"
	NutrientFat          = "fat"
	NutrientCarbohydrate = "carbohydrate"
)

// NutrientNames lists the presented nutrients in display order.
var NutrientNames = []string{NutrientProtein, NutrientCalories, NutrientFat, NutrientCarbohydrate}

// Value returns the named nutrient and whether the upstream provided it.
func (n Nutrition) Value(name string) (float64, bool) {
	var v *float64
	switch name {
	case NutrientProtein:
		v = n.Protein
	case NutrientCalories:
		v = n.Calories
	case NutrientFat:
		v = n.Fat
	case NutrientCarbohydrate:
		v = n.Carbohydrate
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Float returns a pointer to v, for building Nutrition literals.
func Float(v float64) *float64 {
	return &v
}
