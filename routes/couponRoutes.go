package routes

import (
	"net/http"

	controller "github.com/abanoubmamdouhhanna/cfc/controllers"

	"github.com/gorilla/mux"
)

func CouponAdminRoutes(router *mux.Router) {
	router.HandleFunc("/coupons", controller.GetCoupons).Methods(http.MethodGet)
	router.HandleFunc("/coupons", controller.CreateCoupon).Methods(http.MethodPost)
	router.HandleFunc("/coupons/{coupon_id}", controller.UpdateCoupon).Methods(http.MethodPatch)
	router.HandleFunc("/coupons/{coupon_id}", controller.DeleteCoupon).Methods(http.MethodDelete)
}
