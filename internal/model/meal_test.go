package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONBStringArrayValue(t *testing.T) {
	v, err := JSONBStringArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = JSONBStringArray{"Boil water.", "Add pasta."}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["Boil water.","Add pasta."]`, v)
}

func TestJSONBStringArrayScan(t *testing.T) {
	var a JSONBStringArray
	require.NoError(t, a.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, JSONBStringArray{"a", "b"}, a)

	require.NoError(t, a.Scan(`["c"]`))
	assert.Equal(t, JSONBStringArray{"c"}, a)

	require.NoError(t, a.Scan(nil))
	assert.Empty(t, a)

	assert.Error(t, a.Scan([]byte(`{`)))
}

func TestMealClone(t *testing.T) {
	rating := 4
	m := &Meal{
		Name:         "Curry",
		Rating:       &rating,
		Nutrition:    Nutrition{Protein: Float(18)},
		Instructions: JSONBStringArray{"Simmer."},
	}

	c := m.Clone()
	*c.Rating = 1
	*c.Nutrition.Protein = 0
	c.Instructions[0] = "Burn."

	assert.Equal(t, 4, *m.Rating)
	assert.Equal(t, 18.0, *m.Nutrition.Protein)
	assert.Equal(t, "Simmer.", m.Instructions[0])
	assert.Nil(t, c.Nutrition.Fat)
	assert.True(t, c.Rated())
}

func TestNutritionValue(t *testing.T) {
	n := Nutrition{Calories: Float(430)}

	v, ok := n.Value(NutrientCalories)
	assert.True(t, ok)
	assert.Equal(t, 430.0, v)

	v, ok = n.Value(NutrientFat)
	assert.False(t, ok)
	assert.Zero(t, v)

	_, ok = n.Value("sugar")
	assert.False(t, ok)
}
