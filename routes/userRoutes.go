package routes

import (
	controller "github.com/abanoubmamdouhhanna/cfc/controllers"

	"github.com/gorilla/mux"
)

func PublicRoutes(router *mux.Router) {
	router.HandleFunc("/users/signup", controller.SignUp).Methods("POST")
	router.HandleFunc("/users/login", controller.Login).Methods("POST")
}

func UserProtectedRoutes(router *mux.Router) {
	router.HandleFunc("/users/logout", controller.Logout).Methods("POST")
	router.HandleFunc("/users/{user_id}", controller.GetUser).Methods("GET")
}
