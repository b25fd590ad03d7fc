package routes

import (
	"net/http"

	controller "github.com/abanoubmamdouhhanna/cfc/controllers"

	"github.com/gorilla/mux"
)

func MealPublicRoutes(router *mux.Router) {
	router.HandleFunc("/meals", controller.GetMeals).Methods(http.MethodGet)
	router.HandleFunc("/meals/{meal_id}", controller.GetMealById).Methods(http.MethodGet)
}

func MealAdminRoutes(router *mux.Router) {
	router.HandleFunc("/meals", controller.CreateMeal).Methods(http.MethodPost)
	router.HandleFunc("/meals/{meal_id}/status", controller.UpdateMealStatus).Methods(http.MethodPatch)
	router.HandleFunc("/meals/{meal_id}", controller.DeleteMeal).Methods(http.MethodDelete)
}
