package models

import (
	"testing"
	"time"

	"github.com/abanoubmamdouhhanna/cfc/apperr"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeCouponName(t *testing.T) {
	assert.Equal(t, "SAVE10", NormalizeCouponName(" save10 "))
	assert.Equal(t, "SAVE10", NormalizeCouponName("SAVE10"))
}

func TestCouponUsableBy(t *testing.T) {
	now := time.Now()
	coupon := Coupon{
		Name:    "SAVE10",
		Amount:  10,
		Expire:  now.Add(24 * time.Hour),
		Used_by: []string{"other-user"},
	}

	assert.NoError(t, coupon.UsableBy("u1", now))
}

func TestCouponUsableByExpired(t *testing.T) {
	now := time.Now()
	coupon := Coupon{Name: "OLD", Amount: 10, Expire: now.Add(-time.Minute)}

	err := coupon.UsableBy("u1", now)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestCouponUsableByAlreadyUsed(t *testing.T) {
	now := time.Now()
	coupon := Coupon{Name: "SAVE10", Amount: 10, Expire: now.Add(time.Hour), Used_by: []string{"u1"}}

	err := coupon.UsableBy("u1", now)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
}

func TestCouponUsableByAfterRelease(t *testing.T) {
	// Cancelling an order releases the usage; the same user can apply again.
	now := time.Now()
	coupon := Coupon{Name: "SAVE10", Amount: 10, Expire: now.Add(time.Hour), Used_by: []string{"u1"}}
	assert.Error(t, coupon.UsableBy("u1", now))

	coupon.Used_by = nil
	assert.NoError(t, coupon.UsableBy("u1", now))
}

func TestCouponUsableByDeleted(t *testing.T) {
	now := time.Now()
	coupon := Coupon{Name: "GONE", Amount: 10, Expire: now.Add(time.Hour), Is_deleted: true}

	err := coupon.UsableBy("u1", now)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}
