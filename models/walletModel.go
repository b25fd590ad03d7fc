package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Wallet transaction types. The log is append-only: transactions are never
// mutated or deleted, and the stored balance/points must always equal the
// sum of their effects.
const (
	TxnReward = "reward"
	TxnSpend  = "spend"
	TxnRedeem = "redeem"
)

type WalletTransaction struct {
	Type       string    `bson:"type" json:"type"`
	Amount     float64   `bson:"amount,omitempty" json:"amount,omitempty"`
	Points     int       `bson:"points,omitempty" json:"points,omitempty"`
	Order_id   string    `bson:"order_id,omitempty" json:"order_id,omitempty"`
	Created_at time.Time `bson:"created_at" json:"created_at"`
}

type Wallet struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty"`
	User_id      string              `bson:"user_id" json:"user_id"`
	Balance      float64             `bson:"balance" json:"balance"`
	Points       int                 `bson:"points" json:"points"`
	Transactions []WalletTransaction `bson:"transactions" json:"transactions"`
	Created_at   time.Time           `bson:"created_at" json:"created_at"`
	Updated_at   time.Time           `bson:"updated_at" json:"updated_at"`
}
