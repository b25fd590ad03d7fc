package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/abanoubmamdouhhanna/cfc/apperr"
	database "github.com/abanoubmamdouhhanna/cfc/config"
	"github.com/abanoubmamdouhhanna/cfc/helper"
	"github.com/abanoubmamdouhhanna/cfc/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var walletCollection *mongo.Collection = database.OpenCollection(database.Client, "wallet")

// Wallet writes are read-modify-write (spend and redeem check before they
// decrement), so mutations for one user must serialize.
var userLocks helper.KeyedMutex

// load fetches a user's wallet, lazily creating an empty one.
func load(ctx context.Context, userID string) (models.Wallet, error) {
	var w models.Wallet
	err := walletCollection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&w)
	if errors.Is(err, mongo.ErrNoDocuments) {
		w = models.Wallet{
			User_id:      userID,
			Transactions: []models.WalletTransaction{},
			Created_at:   time.Now(),
			Updated_at:   time.Now(),
		}
		if _, err := walletCollection.InsertOne(ctx, w); err != nil {
			return w, apperr.Wrap(apperr.Internal, "Failed to create wallet", err)
		}
		return w, nil
	}
	if err != nil {
		return w, apperr.Wrap(apperr.Internal, "Failed to load wallet", err)
	}
	return w, nil
}

func save(ctx context.Context, w models.Wallet) error {
	update := bson.M{"$set": bson.M{
		"balance":      w.Balance,
		"points":       w.Points,
		"transactions": w.Transactions,
		"updated_at":   time.Now(),
	}}
	_, err := walletCollection.UpdateOne(ctx, bson.M{"user_id": w.User_id}, update)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to save wallet", err)
	}
	return nil
}

// Get returns a user's wallet (created empty on first use).
func Get(ctx context.Context, userID string) (models.Wallet, error) {
	unlock := userLocks.Lock(userID)
	defer unlock()
	return load(ctx, userID)
}

// Reward credits points for a paid order.
func Reward(ctx context.Context, userID, orderID string, amountSpent float64) (int, error) {
	unlock := userLocks.Lock(userID)
	defer unlock()

	w, err := load(ctx, userID)
	if err != nil {
		return 0, err
	}
	earned := ApplyReward(&w, orderID, amountSpent)
	return earned, save(ctx, w)
}

// Redeem converts points to spendable balance.
func Redeem(ctx context.Context, userID string, points int) (float64, error) {
	unlock := userLocks.Lock(userID)
	defer unlock()

	w, err := load(ctx, userID)
	if err != nil {
		return 0, err
	}
	amount, err := ApplyRedeem(&w, points)
	if err != nil {
		return 0, err
	}
	return amount, save(ctx, w)
}

// Spend debits the wallet for a wallet-paid order. Full amount or nothing.
func Spend(ctx context.Context, userID string, amount float64) error {
	unlock := userLocks.Lock(userID)
	defer unlock()

	w, err := load(ctx, userID)
	if err != nil {
		return err
	}
	if err := ApplySpend(&w, amount); err != nil {
		return err
	}
	return save(ctx, w)
}
