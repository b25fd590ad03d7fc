//go:build integration

// Run against a live mongo with DB set, e.g.:
//
//	DB=mongodb://localhost:27017 go test -tags integration ./controllers/
package controller

import (
	"context"
	"testing"
	"time"

	"github.com/abanoubmamdouhhanna/cfc/apperr"
	"github.com/abanoubmamdouhhanna/cfc/models"
	"github.com/abanoubmamdouhhanna/cfc/wallet"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// A duplicate confirmation (webhook plus redirect reporting the same
// payment) must settle the order once: the second call gets the conflict
// short-circuit, and exactly one reward transaction exists for the order.
func TestConfirmPaymentTwiceSettlesOnce(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userId := "it-user-" + uuid.NewString()
	email := userId + "@test.local"
	first, last := "Integration", "Test"
	_, err := userCollection.InsertOne(ctx, models.User{
		ID:         primitive.NewObjectID(),
		User_id:    userId,
		Email:      &email,
		First_name: &first,
		Last_name:  &last,
		Role:       models.RoleUser,
		Created_at: time.Now(),
		Updated_at: time.Now(),
	})
	require.NoError(t, err)
	defer userCollection.DeleteOne(context.Background(), bson.M{"user_id": userId})

	order := models.Order{
		ID:             primitive.NewObjectID(),
		Order_id:       uuid.NewString(),
		User_id:        userId,
		Location_id:    "it-location",
		Address:        "1 Test St",
		City:           "Testville",
		State:          "TS",
		Phone:          "5550100",
		Total_price:    48.15,
		Final_price:    45.00,
		Tax:            3.15,
		Payment_type:   models.PayCard,
		Payment_status: models.PaymentPending,
		Status:         models.StatusPending,
		Order_date:     "2099-01-01",
		Order_time:     "12:00",
		Created_at:     time.Now(),
		Updated_at:     time.Now(),
	}
	_, err = orderCollection.InsertOne(ctx, order)
	require.NoError(t, err)
	defer orderCollection.DeleteOne(context.Background(), bson.M{"order_id": order.Order_id})

	confirmed, err := confirmPayment(ctx, order.Order_id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, confirmed.Status)
	assert.Equal(t, models.PaymentPaid, confirmed.Payment_status)

	again, err := confirmPayment(ctx, order.Order_id)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
	assert.Equal(t, models.PaymentPaid, again.Payment_status)

	userWallet, err := wallet.Get(ctx, userId)
	require.NoError(t, err)
	rewards := 0
	for _, txn := range userWallet.Transactions {
		if txn.Type == models.TxnReward && txn.Order_id == order.Order_id {
			rewards++
		}
	}
	assert.Equal(t, 1, rewards, "duplicate confirmation must reward once")
}
