package routes

import (
	"net/http"

	controller "github.com/abanoubmamdouhhanna/cfc/controllers"

	"github.com/gorilla/mux"
)

func LocationPublicRoutes(router *mux.Router) {
	router.HandleFunc("/locations", controller.GetLocations).Methods(http.MethodGet)
	router.HandleFunc("/locations/{location_id}", controller.GetLocationById).Methods(http.MethodGet)
}

func LocationAdminRoutes(router *mux.Router) {
	router.HandleFunc("/locations", controller.CreateLocation).Methods(http.MethodPost)
}
