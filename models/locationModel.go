package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Location struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Location_id  string             `bson:"location_id" json:"location_id"`
	Title        *string            `bson:"title" json:"title" validate:"required,min=2,max=100"`
	Address      *string            `bson:"address" json:"address" validate:"required"`
	Phone        *string            `bson:"phone" json:"phone" validate:"required"`
	Hours        string             `bson:"hours" json:"hours"`
	Location_url string             `bson:"location_url" json:"location_url"`
	Tax_rate     float64            `bson:"tax_rate" json:"tax_rate" validate:"min=0,max=100"`
	Is_deleted   bool               `bson:"is_deleted" json:"is_deleted"`
	Created_at   time.Time          `bson:"created_at" json:"created_at"`
	Updated_at   time.Time          `bson:"updated_at" json:"updated_at"`
}
