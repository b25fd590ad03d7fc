// Package wallet is the loyalty ledger: an append-only transaction log per
// user plus running balance and points derived from it.
package wallet

import (
	"time"

	"github.com/abanoubmamdouhhanna/cfc/apperr"
	"github.com/abanoubmamdouhhanna/cfc/models"
	"github.com/shopspring/decimal"
)

const (
	// PointsPerDollar is the accrual rate: 10 points per $1 spent.
	PointsPerDollar = 10
	// PointsPerRedeemUnit is the redemption granularity: 100 points = $1.
	PointsPerRedeemUnit = 100
)

// ApplyReward appends a reward transaction for an order and credits the
// earned points. Returns the points earned.
func ApplyReward(w *models.Wallet, orderID string, amountSpent float64) int {
	earned := int(decimal.NewFromFloat(amountSpent).
		Mul(decimal.NewFromInt(PointsPerDollar)).
		IntPart())
	w.Points += earned
	w.Transactions = append(w.Transactions, models.WalletTransaction{
		Type:       models.TxnReward,
		Points:     earned,
		Order_id:   orderID,
		Created_at: time.Now(),
	})
	return earned
}

// ApplyRedeem converts points to balance at the fixed rate. Points must be
// a positive multiple of PointsPerRedeemUnit and within the current points
// balance. Returns the dollar amount credited.
func ApplyRedeem(w *models.Wallet, points int) (float64, error) {
	if points <= 0 || points%PointsPerRedeemUnit != 0 {
		return 0, apperr.Newf(apperr.Validation,
			"You can only redeem points in multiples of %d", PointsPerRedeemUnit)
	}
	if points > w.Points {
		return 0, apperr.New(apperr.InsufficientFunds, "Not enough points to redeem")
	}
	amount := decimal.NewFromInt(int64(points)).
		Div(decimal.NewFromInt(PointsPerRedeemUnit)).
		Round(2).
		InexactFloat64()
	w.Points -= points
	w.Balance = decimal.NewFromFloat(w.Balance).
		Add(decimal.NewFromFloat(amount)).
		Round(2).
		InexactFloat64()
	w.Transactions = append(w.Transactions, models.WalletTransaction{
		Type:       models.TxnRedeem,
		Points:     -points,
		Amount:     amount,
		Created_at: time.Now(),
	})
	return amount, nil
}

// ApplySpend debits the full amount or rejects; partial spends are not
// allowed. Balance never goes negative.
func ApplySpend(w *models.Wallet, amount float64) error {
	if amount <= 0 {
		return apperr.New(apperr.Validation, "Spend amount must be positive")
	}
	if amount > w.Balance {
		return apperr.New(apperr.InsufficientFunds, "Insufficient E-Wallet balance to place the order")
	}
	w.Balance = decimal.NewFromFloat(w.Balance).
		Sub(decimal.NewFromFloat(amount)).
		Round(2).
		InexactFloat64()
	w.Transactions = append(w.Transactions, models.WalletTransaction{
		Type:       models.TxnSpend,
		Amount:     amount,
		Created_at: time.Now(),
	})
	return nil
}

// Reconcile verifies that the stored balance and points equal the sum of
// the transaction log's signed effects.
func Reconcile(w models.Wallet) error {
	balance := decimal.Zero
	points := 0
	for _, txn := range w.Transactions {
		switch txn.Type {
		case models.TxnReward:
			points += txn.Points
		case models.TxnRedeem:
			points += txn.Points // stored negative
			balance = balance.Add(decimal.NewFromFloat(txn.Amount))
		case models.TxnSpend:
			balance = balance.Sub(decimal.NewFromFloat(txn.Amount))
		default:
			return apperr.Newf(apperr.State, "Unknown wallet transaction type %q", txn.Type)
		}
	}
	if points != w.Points {
		return apperr.Newf(apperr.State,
			"Wallet points mismatch for user %s: stored %d, ledger %d", w.User_id, w.Points, points)
	}
	if !balance.Round(2).Equal(decimal.NewFromFloat(w.Balance).Round(2)) {
		return apperr.Newf(apperr.State,
			"Wallet balance mismatch for user %s: stored %.2f, ledger %s", w.User_id, w.Balance, balance.Round(2))
	}
	return nil
}
