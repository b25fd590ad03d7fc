package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MealAvailable    = "available"
	MealNotAvailable = "not available"
)

type Meal struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Meal_id           string             `bson:"meal_id" json:"meal_id"`
	Title             *string            `bson:"title" json:"title" validate:"required,min=2,max=100"`
	Description       *string            `bson:"description" json:"description"`
	Image             *string            `bson:"image" json:"image"`
	Price             *float64           `bson:"price" json:"price" validate:"required,gt=0"`
	Discount          float64            `bson:"discount" json:"discount"`
	Final_price       *float64           `bson:"final_price" json:"final_price" validate:"required,gt=0"`
	Final_combo_price *float64           `bson:"final_combo_price" json:"final_combo_price"`
	Is_combo          bool               `bson:"is_combo" json:"is_combo"`
	Status            string             `bson:"status" json:"status"`
	Wish_users        []string           `bson:"wish_users" json:"wish_users"`
	Is_deleted        bool               `bson:"is_deleted" json:"is_deleted"`
	Created_at        time.Time          `bson:"created_at" json:"created_at"`
	Updated_at        time.Time          `bson:"updated_at" json:"updated_at"`
}
