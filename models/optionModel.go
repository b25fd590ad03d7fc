package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Addon option categories. Sauces, drinks and sides share one collection,
// discriminated by type.
const (
	OptionSauce = "sauce"
	OptionDrink = "drink"
	OptionSide  = "side"
)

func ValidOptionType(t string) bool {
	return t == OptionSauce || t == OptionDrink || t == OptionSide
}

type Option struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Option_id    string             `bson:"option_id" json:"option_id"`
	Type         string             `bson:"type" json:"type" validate:"required,oneof=sauce drink side"`
	Name         *string            `bson:"name" json:"name" validate:"required,min=2,max=100"`
	Price        float64            `bson:"price" json:"price"`
	Is_available bool               `bson:"is_available" json:"is_available"`
	Created_by   string             `bson:"created_by" json:"created_by"`
	Updated_by   string             `bson:"updated_by" json:"updated_by"`
	Created_at   time.Time          `bson:"created_at" json:"created_at"`
	Updated_at   time.Time          `bson:"updated_at" json:"updated_at"`
}
