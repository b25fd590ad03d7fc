package routes

import (
	"net/http"

	controller "github.com/abanoubmamdouhhanna/cfc/controllers"

	"github.com/gorilla/mux"
)

func InvoiceProtectedRoutes(router *mux.Router) {
	router.HandleFunc("/orders/{order_id}/invoice", controller.GetOrderInvoice).Methods(http.MethodGet)
}

func InvoiceAdminRoutes(router *mux.Router) {
	router.HandleFunc("/invoices", controller.GetInvoices).Methods(http.MethodGet)
}
