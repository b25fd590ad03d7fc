package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeMealIncrementsEquivalentEntry(t *testing.T) {
	cart := Cart{}
	cart.MergeMeal(CartMeal{Meal_id: "m1", Quantity: 1, Is_combo: true, Sauces: []string{"s1"}})
	cart.MergeMeal(CartMeal{Meal_id: "m1", Quantity: 2, Is_combo: true, Sauces: []string{"s1"}})

	require.Len(t, cart.Meals, 1)
	assert.Equal(t, 3, cart.Meals[0].Quantity)
}

func TestMergeMealDifferentAddonsAppends(t *testing.T) {
	cart := Cart{}
	cart.MergeMeal(CartMeal{Meal_id: "m1", Quantity: 1, Is_combo: true, Sauces: []string{"s1"}})
	cart.MergeMeal(CartMeal{Meal_id: "m1", Quantity: 1, Is_combo: true, Sauces: []string{"s2"}})

	assert.Len(t, cart.Meals, 2)
}

func TestMergeMealComboFlagSeparatesEntries(t *testing.T) {
	cart := Cart{}
	cart.MergeMeal(CartMeal{Meal_id: "m1", Quantity: 1, Is_combo: false})
	cart.MergeMeal(CartMeal{Meal_id: "m1", Quantity: 1, Is_combo: true})

	assert.Len(t, cart.Meals, 2)
}

func TestMergeMealNonComboIgnoresAddonLists(t *testing.T) {
	// A la carte entries match on meal id alone.
	cart := Cart{}
	cart.MergeMeal(CartMeal{Meal_id: "m1", Quantity: 1, Is_combo: false, Sauces: []string{"s1"}})
	cart.MergeMeal(CartMeal{Meal_id: "m1", Quantity: 1, Is_combo: false, Sauces: []string{"s2"}})

	require.Len(t, cart.Meals, 1)
	assert.Equal(t, 2, cart.Meals[0].Quantity)
}

func TestMergeExtra(t *testing.T) {
	cart := Cart{}
	cart.MergeExtra(CartExtra{Type: OptionSauce, Option_id: "s1", Quantity: 1})
	cart.MergeExtra(CartExtra{Type: OptionSauce, Option_id: "s1", Quantity: 2})
	cart.MergeExtra(CartExtra{Type: OptionDrink, Option_id: "s1", Quantity: 1})

	require.Len(t, cart.Extras, 2)
	assert.Equal(t, 3, cart.Extras[0].Quantity)
}
