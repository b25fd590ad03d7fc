package routes

import (
	"net/http"

	controller "github.com/abanoubmamdouhhanna/cfc/controllers"

	"github.com/gorilla/mux"
)

func WalletProtectedRoutes(router *mux.Router) {
	router.HandleFunc("/wallet", controller.GetWallet).Methods(http.MethodGet)
	router.HandleFunc("/wallet/redeem", controller.RedeemPoints).Methods(http.MethodPost)
}
