package routes

import (
	"net/http"

	controller "github.com/abanoubmamdouhhanna/cfc/controllers"

	"github.com/gorilla/mux"
)

func OrderProtectedRoutes(router *mux.Router) {
	router.HandleFunc("/orders", controller.CreateOrder).Methods(http.MethodPost)
	router.HandleFunc("/orders/my", controller.GetUserOrders).Methods(http.MethodGet)
	router.HandleFunc("/orders/{order_id}", controller.GetOrderById).Methods(http.MethodGet)
	router.HandleFunc("/orders/{order_id}/cancel", controller.CancelOrder).Methods(http.MethodPost)
}

func OrderAdminRoutes(router *mux.Router) {
	router.HandleFunc("/orders", controller.GetOrders).Methods(http.MethodGet)
	router.HandleFunc("/orders/location/{location_id}", controller.GetLocationOrders).Methods(http.MethodGet)
	router.HandleFunc("/orders/{order_id}/delivered", controller.DeliveredOrder).Methods(http.MethodPatch)
	router.HandleFunc("/orders/{order_id}/reject", controller.RejectOrder).Methods(http.MethodPatch)
}

// PaymentRoutes are unauthenticated: the success and cancel landings
// arrive as bare browser redirects from the providers, and the webhooks
// authenticate themselves by signature instead of a session.
func PaymentRoutes(router *mux.Router) {
	router.HandleFunc("/order/stripePayment/success", controller.StripeSuccess).Methods(http.MethodGet)
	router.HandleFunc("/order/stripePayment/cancel", controller.StripeCancel).Methods(http.MethodGet)
	router.HandleFunc("/order/paypalPayment/success", controller.PayPalSuccess).Methods(http.MethodGet)
	router.HandleFunc("/order/paypalPayment/cancel", controller.PayPalCancel).Methods(http.MethodGet)
	router.HandleFunc("/webhooks/stripe", controller.StripeWebhook).Methods(http.MethodPost)
	router.HandleFunc("/webhooks/paypal", controller.PayPalWebhook).Methods(http.MethodPost)
}
