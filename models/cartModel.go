package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartMeal is one pending meal selection inside a cart. Option ids keep the
// order the client supplied; charging order depends on it.
type CartMeal struct {
	Meal_id  string   `bson:"meal_id" json:"meal_id" validate:"required"`
	Quantity int      `bson:"quantity" json:"quantity" validate:"required,min=1"`
	Is_combo bool     `bson:"is_combo" json:"is_combo"`
	Sauces   []string `bson:"sauces" json:"sauces"`
	Drinks   []string `bson:"drinks" json:"drinks"`
	Sides    []string `bson:"sides" json:"sides"`
}

// CartExtra is a standalone addon purchase, not attached to any meal.
type CartExtra struct {
	Type      string `bson:"type" json:"type" validate:"required,oneof=sauce drink side"`
	Option_id string `bson:"option_id" json:"option_id" validate:"required"`
	Quantity  int    `bson:"quantity" json:"quantity" validate:"required,min=1"`
}

type Cart struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Created_by string             `bson:"created_by" json:"created_by"`
	Meals      []CartMeal         `bson:"meals" json:"meals"`
	Extras     []CartExtra        `bson:"extras" json:"extras"`
	Is_deleted bool               `bson:"is_deleted" json:"is_deleted"`
	Created_at time.Time          `bson:"created_at" json:"created_at"`
	Updated_at time.Time          `bson:"updated_at" json:"updated_at"`
}

// SameSelection reports whether two cart meals are interchangeable: same
// meal, same combo flag and, for combos, identical addon choices in the
// same order.
func SameSelection(a, b CartMeal) bool {
	if a.Meal_id != b.Meal_id || a.Is_combo != b.Is_combo {
		return false
	}
	if !a.Is_combo {
		return true
	}
	return equalIDs(a.Sauces, b.Sauces) && equalIDs(a.Drinks, b.Drinks) && equalIDs(a.Sides, b.Sides)
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// MergeMeal folds entry into the cart: an equivalent entry gets its
// quantity bumped, otherwise entry is appended.
func (c *Cart) MergeMeal(entry CartMeal) {
	for i := range c.Meals {
		if SameSelection(c.Meals[i], entry) {
			c.Meals[i].Quantity += entry.Quantity
			return
		}
	}
	c.Meals = append(c.Meals, entry)
}

// MergeExtra folds a standalone addon into the cart by type + option id.
func (c *Cart) MergeExtra(extra CartExtra) {
	for i := range c.Extras {
		if c.Extras[i].Type == extra.Type && c.Extras[i].Option_id == extra.Option_id {
			c.Extras[i].Quantity += extra.Quantity
			return
		}
	}
	c.Extras = append(c.Extras, extra)
}
