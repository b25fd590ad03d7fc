package routes

import (
	"net/http"

	controller "github.com/abanoubmamdouhhanna/cfc/controllers"

	"github.com/gorilla/mux"
)

func OptionPublicRoutes(router *mux.Router) {
	router.HandleFunc("/options/{type}", controller.GetOptions).Methods(http.MethodGet)
	router.HandleFunc("/options/{type}/{option_id}", controller.GetOptionById).Methods(http.MethodGet)
}

func OptionAdminRoutes(router *mux.Router) {
	router.HandleFunc("/options", controller.CreateOption).Methods(http.MethodPost)
	router.HandleFunc("/options/{type}/{option_id}/availability", controller.UpdateOptionAvailability).Methods(http.MethodPatch)
}
