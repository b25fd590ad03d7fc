package wallet

import (
	"testing"

	"github.com/abanoubmamdouhhanna/cfc/apperr"
	"github.com/abanoubmamdouhhanna/cfc/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyRewardAccruesPoints(t *testing.T) {
	w := models.Wallet{User_id: "u1"}

	earned := ApplyReward(&w, "order-1", 48.15)
	assert.Equal(t, 481, earned)
	assert.Equal(t, 481, w.Points)
	assert.Equal(t, 0.0, w.Balance)
	require.Len(t, w.Transactions, 1)
	assert.Equal(t, models.TxnReward, w.Transactions[0].Type)
	assert.Equal(t, "order-1", w.Transactions[0].Order_id)
	assert.NoError(t, Reconcile(w))
}

func TestApplyRedeem(t *testing.T) {
	w := models.Wallet{User_id: "u1", Points: 250}
	w.Transactions = append(w.Transactions, models.WalletTransaction{Type: models.TxnReward, Points: 250})

	amount, err := ApplyRedeem(&w, 200)
	require.NoError(t, err)
	assert.Equal(t, 2.0, amount)
	assert.Equal(t, 50, w.Points)
	assert.Equal(t, 2.0, w.Balance)
	assert.NoError(t, Reconcile(w))
}

func TestApplyRedeemGranularity(t *testing.T) {
	w := models.Wallet{User_id: "u1", Points: 250}

	_, err := ApplyRedeem(&w, 150)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
	assert.Equal(t, 250, w.Points)
}

func TestApplyRedeemInsufficientPoints(t *testing.T) {
	w := models.Wallet{User_id: "u1", Points: 100}

	_, err := ApplyRedeem(&w, 200)
	assert.True(t, apperr.IsKind(err, apperr.InsufficientFunds))
	assert.Equal(t, 100, w.Points)
	assert.Equal(t, 0.0, w.Balance)
}

func TestApplySpend(t *testing.T) {
	w := models.Wallet{User_id: "u1", Balance: 10}
	w.Transactions = append(w.Transactions,
		models.WalletTransaction{Type: models.TxnReward, Points: 0},
		models.WalletTransaction{Type: models.TxnRedeem, Points: 0, Amount: 10})

	require.NoError(t, ApplySpend(&w, 7.25))
	assert.Equal(t, 2.75, w.Balance)
	assert.NoError(t, Reconcile(w))
}

func TestApplySpendInsufficientBalance(t *testing.T) {
	// Wallet balance $5, order total $10: rejected, balance unchanged.
	w := models.Wallet{User_id: "u1", Balance: 5}

	err := ApplySpend(&w, 10)
	assert.True(t, apperr.IsKind(err, apperr.InsufficientFunds))
	assert.Equal(t, 5.0, w.Balance)
	assert.Empty(t, w.Transactions)
}

func TestLedgerSequenceInvariant(t *testing.T) {
	w := models.Wallet{User_id: "u1"}

	ApplyReward(&w, "o1", 100)       // +1000 points
	ApplyReward(&w, "o2", 25.50)     // +255 points
	_, err := ApplyRedeem(&w, 1200)  // -1200 points, +$12
	require.NoError(t, err)
	require.NoError(t, ApplySpend(&w, 8.40))

	assert.Equal(t, 55, w.Points)
	assert.Equal(t, 3.60, w.Balance)
	assert.Len(t, w.Transactions, 4)
	assert.NoError(t, Reconcile(w))
}

func TestReconcileDetectsDrift(t *testing.T) {
	w := models.Wallet{User_id: "u1"}
	ApplyReward(&w, "o1", 10)
	w.Points += 5 // corrupt the derived field

	assert.Error(t, Reconcile(w))
}
