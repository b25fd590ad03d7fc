package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles checked by the authorization middleware.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superAdmin"
)

type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	User_id       string             `bson:"user_id" json:"user_id"`
	First_name    *string            `bson:"first_name" json:"first_name" validate:"required,min=2,max=100"`
	Last_name     *string            `bson:"last_name" json:"last_name" validate:"required,min=2,max=100"`
	Email         *string            `bson:"email" json:"email" validate:"required,email"`
	Password      *string            `bson:"password" json:"password" validate:"required,min=6"`
	Phone         *string            `bson:"phone" json:"phone" validate:"required"`
	Role          string             `bson:"role" json:"role"`
	Location_id   string             `bson:"location_id,omitempty" json:"location_id,omitempty"`
	Token         *string            `bson:"token" json:"token"`
	Refresh_token *string            `bson:"refresh_token" json:"refresh_token"`
	Created_at    time.Time          `bson:"created_at" json:"created_at"`
	Updated_at    time.Time          `bson:"updated_at" json:"updated_at"`
}
