package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/abanoubmamdouhhanna/cfc/cleanup"
	database "github.com/abanoubmamdouhhanna/cfc/config"
	middleware "github.com/abanoubmamdouhhanna/cfc/middlewares"
	"github.com/abanoubmamdouhhanna/cfc/models"
	"github.com/abanoubmamdouhhanna/cfc/notify"
	"github.com/abanoubmamdouhhanna/cfc/payment"
	routes "github.com/abanoubmamdouhhanna/cfc/routes"

	"github.com/gorilla/mux"
)

func main() {
	database.LoadEnv()
	payment.InitStripe()
	notify.InitRedis()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	router := mux.NewRouter()

	// Public Routes (No Authentication)
	routes.PublicRoutes(router)
	routes.PaymentRoutes(router)
	routes.MealPublicRoutes(router)
	routes.OptionPublicRoutes(router)
	routes.LocationPublicRoutes(router)

	// Apply Authentication Middleware to Protected Routes
	securedRoutes := router.PathPrefix("/").Subrouter()
	securedRoutes.Use(middleware.Authentication)
	routes.UserProtectedRoutes(securedRoutes)
	routes.CartProtectedRoutes(securedRoutes)
	routes.OrderProtectedRoutes(securedRoutes)
	routes.WalletProtectedRoutes(securedRoutes)
	routes.InvoiceProtectedRoutes(securedRoutes)

	// Admin surface: staff roles only
	adminRoutes := router.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.Authentication)
	adminRoutes.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin))
	routes.MealAdminRoutes(adminRoutes)
	routes.OptionAdminRoutes(adminRoutes)
	routes.LocationAdminRoutes(adminRoutes)
	routes.CouponAdminRoutes(adminRoutes)
	routes.OrderAdminRoutes(adminRoutes)
	routes.InvoiceAdminRoutes(adminRoutes)

	// Background tasks: abandoned checkout sweep and the email outbox.
	sweep := cleanup.StartSweep()
	defer sweep.Stop()

	if sender := notify.SMTPFromEnv(); sender != nil {
		worker := &notify.Worker{Sender: sender}
		go worker.Run(context.Background())
	} else {
		log.Println("SMTP not configured, email delivery disabled")
	}

	log.Printf("Server running on port %s", port)
	http.ListenAndServe(":"+port, router)
}
