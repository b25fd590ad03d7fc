package models

import (
	"strings"
	"time"

	"github.com/abanoubmamdouhhanna/cfc/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Coupon struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Coupon_id  string             `bson:"coupon_id" json:"coupon_id"`
	Name       string             `bson:"name" json:"name" validate:"required,min=2,max=50"`
	Amount     float64            `bson:"amount" json:"amount" validate:"required,min=1,max=100"`
	Expire     time.Time          `bson:"expire" json:"expire" validate:"required"`
	Used_by    []string           `bson:"used_by" json:"used_by"`
	Is_deleted bool               `bson:"is_deleted" json:"is_deleted"`
	Created_by string             `bson:"created_by" json:"created_by"`
	Updated_by string             `bson:"updated_by" json:"updated_by"`
	Created_at time.Time          `bson:"created_at" json:"created_at"`
	Updated_at time.Time          `bson:"updated_at" json:"updated_at"`
}

// NormalizeCouponName upper-cases a coupon name; names are stored and
// matched case-insensitively.
func NormalizeCouponName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// UsableBy checks a coupon against a user at a point in time.
func (c Coupon) UsableBy(userID string, now time.Time) error {
	if c.Is_deleted {
		return apperr.New(apperr.NotFound, "Invalid or expired coupon")
	}
	if now.After(c.Expire) {
		return apperr.New(apperr.Validation, "Invalid or expired coupon")
	}
	for _, id := range c.Used_by {
		if id == userID {
			return apperr.New(apperr.Conflict, "Coupon already used")
		}
	}
	return nil
}
