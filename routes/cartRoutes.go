package routes

import (
	"net/http"

	controller "github.com/abanoubmamdouhhanna/cfc/controllers"

	"github.com/gorilla/mux"
)

func CartProtectedRoutes(router *mux.Router) {
	router.HandleFunc("/cart", controller.GetCart).Methods(http.MethodGet)
	router.HandleFunc("/cart/meals", controller.AddToCart).Methods(http.MethodPost)
	router.HandleFunc("/cart/extras", controller.AddStandaloneExtra).Methods(http.MethodPost)
	router.HandleFunc("/cart/clear", controller.ClearCart).Methods(http.MethodPost)
	router.HandleFunc("/cart/clearItems", controller.ClearCartItem).Methods(http.MethodPost)
}
