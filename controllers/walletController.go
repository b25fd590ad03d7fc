package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/abanoubmamdouhhanna/cfc/apperr"
	"github.com/abanoubmamdouhhanna/cfc/wallet"
)

// GetWallet returns the caller's balance, points, and transaction log.
func GetWallet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	_, _, _, uid := middlewareUser(r)

	userWallet, err := wallet.Get(ctx, uid)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User wallet",
		"data":    userWallet,
	})
}

// RedeemPoints converts loyalty points into wallet balance.
func RedeemPoints(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	_, _, _, uid := middlewareUser(r)

	var requestBody struct {
		Points int `json:"points" validate:"required,min=1"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, `{"success": false, "message": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if requestBody.Points < 1 {
		writeError(w, apperr.New(apperr.Validation, "Points must be a positive number"))
		return
	}

	credited, err := wallet.Redeem(ctx, uid, requestBody.Points)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Points redeemed successfully",
		"data": map[string]interface{}{
			"points_redeemed": requestBody.Points,
			"amount_credited": credited,
		},
	})
}
