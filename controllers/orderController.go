package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/abanoubmamdouhhanna/cfc/apperr"
	database "github.com/abanoubmamdouhhanna/cfc/config"
	middleware "github.com/abanoubmamdouhhanna/cfc/middlewares"
	"github.com/abanoubmamdouhhanna/cfc/models"
	"github.com/abanoubmamdouhhanna/cfc/payment"
	"github.com/abanoubmamdouhhanna/cfc/pricing"
	"github.com/abanoubmamdouhhanna/cfc/wallet"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var orderCollection *mongo.Collection = database.OpenCollection(database.Client, "order")

type createOrderRequest struct {
	Location_id  string            `json:"location_id" validate:"required"`
	Address      string            `json:"address" validate:"required"`
	City         string            `json:"city" validate:"required"`
	State        string            `json:"state" validate:"required"`
	Phone        string            `json:"phone" validate:"required"`
	Order_date   string            `json:"order_date" validate:"required"`
	Order_time   string            `json:"order_time" validate:"required"`
	Payment_type string            `json:"payment_type" validate:"required"`
	Coupon       string            `json:"coupon"`
	Meals        []models.CartMeal `json:"meals"`
}

// priceOrderMeals turns raw selections into immutable priced snapshots.
// Any meal that is gone or deleted fails the whole order.
func priceOrderMeals(ctx context.Context, selections []models.CartMeal) ([]models.PricedLineItem, float64, error) {
	items := make([]models.PricedLineItem, 0, len(selections))
	subtotal := decimal.Zero
	for _, entry := range selections {
		meal, err := findActiveMeal(ctx, entry.Meal_id)
		if err != nil {
			return nil, 0, apperr.New(apperr.Validation, "Invalid meal in order")
		}
		item, err := pricing.PriceMealSelection(
			toCatalogMeal(meal), entry.Quantity, entry.Is_combo,
			resolveOptions(ctx, models.OptionSauce, entry.Sauces),
			resolveOptions(ctx, models.OptionDrink, entry.Drinks),
			resolveOptions(ctx, models.OptionSide, entry.Sides))
		if err != nil {
			return nil, 0, apperr.New(apperr.Validation, "Invalid meal in order")
		}
		items = append(items, item)
		subtotal = subtotal.Add(decimal.NewFromFloat(item.Item_total))
	}
	return items, subtotal.Round(2).InexactFloat64(), nil
}

// CreateOrder assembles a priced Pending order from the cart or an
// explicit meal list, then dispatches it to the chosen payment gateway.
func CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	email, _, _, uid := middlewareUser(r)

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"success": false, "message": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if validationErr := validate.Struct(req); validationErr != nil {
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
		return
	}
	if !models.ValidPaymentType(req.Payment_type) {
		writeError(w, apperr.New(apperr.Validation, "Invalid payment type, must be Card, PayPal, or Wallet"))
		return
	}

	location, err := findActiveLocation(ctx, req.Location_id)
	if err != nil {
		writeError(w, apperr.New(apperr.NotFound, "Invalid location"))
		return
	}

	// A user with an unpaid redirect checkout outstanding must resume it,
	// not open a second one.
	var pendingOrder models.Order
	err = orderCollection.FindOne(ctx, bson.M{
		"user_id":        uid,
		"status":         models.StatusPending,
		"payment_status": models.PaymentPending,
		"payment_type":   bson.M{"$in": []string{models.PayCard, models.PayPayPal}},
	}).Decode(&pendingOrder)
	if err == nil {
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"success": false,
			"message": "You already have a pending order awaiting payment",
			"data": map[string]interface{}{
				"order_id":    pendingOrder.Order_id,
				"payment_url": pendingOrder.Payment_url,
			},
		})
		return
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, `{"success": false, "message": "Error checking pending orders"}`, http.StatusInternalServerError)
		return
	}

	if err := models.ValidateFulfillment(req.Order_date, req.Order_time); err != nil {
		writeError(w, err)
		return
	}

	var coupon *models.Coupon
	if req.Coupon != "" {
		coupon, err = validateCoupon(ctx, req.Coupon, uid)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	selections := req.Meals
	fromCart := false
	if len(selections) == 0 {
		cart, err := findCart(ctx, uid)
		if err != nil || len(cart.Meals) == 0 {
			writeError(w, apperr.New(apperr.Validation, "Cart is empty, nothing to order"))
			return
		}
		selections = cart.Meals
		fromCart = true
	}

	items, subtotal, err := priceOrderMeals(ctx, selections)
	if err != nil {
		writeError(w, err)
		return
	}

	discount, finalPrice, tax, total := pricing.Totals(subtotal, coupon, location.Tax_rate)

	order := models.Order{
		ID:             primitive.NewObjectID(),
		Order_id:       uuid.NewString(),
		User_id:        uid,
		Location_id:    location.Location_id,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		Phone:          req.Phone,
		Meals:          items,
		Discount:       discount,
		Final_price:    finalPrice,
		Tax:            tax,
		Total_price:    total,
		Payment_type:   req.Payment_type,
		Payment_status: models.PaymentPending,
		Status:         models.StatusPending,
		Order_date:     req.Order_date,
		Order_time:     req.Order_time,
		Created_at:     time.Now(),
		Updated_at:     time.Now(),
	}
	if coupon != nil {
		order.Coupon_id = coupon.Coupon_id
	}

	if _, err := orderCollection.InsertOne(ctx, order); err != nil {
		http.Error(w, `{"success": false, "message": "Order creation failed"}`, http.StatusInternalServerError)
		return
	}

	if coupon != nil {
		if err := markCouponUsed(ctx, coupon.Coupon_id, uid); err != nil {
			http.Error(w, `{"success": false, "message": "Failed to apply coupon"}`, http.StatusInternalServerError)
			return
		}
	}
	if fromCart {
		_ = clearAllCartItems(ctx, uid)
	} else {
		mealIds := make([]string, 0, len(selections))
		for _, s := range selections {
			mealIds = append(mealIds, s.Meal_id)
		}
		_ = clearSelectedItems(ctx, uid, mealIds)
	}

	switch order.Payment_type {
	case models.PayWallet:
		if err := wallet.Spend(ctx, uid, order.Total_price); err != nil {
			// Order stays Pending and unpaid; the idle sweep will reap it
			// if the user never retries with another method.
			writeError(w, err)
			return
		}
		confirmed, err := confirmPayment(ctx, order.Order_id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"message": "Order placed and paid from wallet",
			"data":    confirmed,
		})
		return

	case models.PayCard:
		sessionId, url, err := payment.CreateStripeSession(order, coupon, email)
		if err != nil {
			writeError(w, err)
			return
		}
		order.Stripe_session_id = sessionId
		order.Payment_url = url
		_, _ = orderCollection.UpdateOne(ctx, bson.M{"order_id": order.Order_id},
			bson.M{"$set": bson.M{"stripe_session_id": sessionId, "payment_url": url, "updated_at": time.Now()}})

	case models.PayPayPal:
		url, err := payment.CreatePayPalOrder(ctx, order)
		if err != nil {
			writeError(w, err)
			return
		}
		order.Payment_url = url
		_, _ = orderCollection.UpdateOne(ctx, bson.M{"order_id": order.Order_id},
			bson.M{"$set": bson.M{"payment_url": url, "updated_at": time.Now()}})
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Order created successfully, complete the payment",
		"data": map[string]interface{}{
			"order_id":    order.Order_id,
			"total_price": order.Total_price,
			"payment_url": order.Payment_url,
		},
	})
}

// cancelCleanup releases the coupon, removes any generated invoice and
// clears stored provider handles. Shared by cancel and reject paths.
func cancelCleanup(ctx context.Context, order models.Order) {
	if order.Coupon_id != "" {
		releaseCoupon(ctx, order.Coupon_id, order.User_id)
	}
	if order.Invoice_handle != "" {
		_ = invoiceService.Remove(ctx, order)
	}
	_, _ = orderCollection.UpdateOne(ctx, bson.M{"order_id": order.Order_id},
		bson.M{"$unset": bson.M{"stripe_session_id": "", "payment_url": ""}})
}

// CancelOrder lets an order's owner cancel it while still Pending.
func CancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	_, _, _, uid := middlewareUser(r)
	orderId := mux.Vars(r)["order_id"]

	var order models.Order
	err := orderCollection.FindOne(ctx, bson.M{"order_id": orderId, "user_id": uid}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		writeError(w, apperr.New(apperr.NotFound, "Order not found"))
		return
	} else if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving order"}`, http.StatusInternalServerError)
		return
	}

	if !models.CanTransition(order.Status, models.StatusCancelled) {
		writeError(w, apperr.Newf(apperr.State, "Order in status %s can't be cancelled", order.Status))
		return
	}

	result, err := orderCollection.UpdateOne(ctx,
		bson.M{"order_id": orderId, "status": models.StatusPending},
		bson.M{"$set": bson.M{"status": models.StatusCancelled, "updated_by": uid, "updated_at": time.Now()}})
	if err != nil {
		http.Error(w, `{"success": false, "message": "Failed to cancel order"}`, http.StatusInternalServerError)
		return
	}
	if result.ModifiedCount == 0 {
		writeError(w, apperr.New(apperr.State, "Order is no longer pending"))
		return
	}

	cancelCleanup(ctx, order)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order cancelled successfully",
	})
}

// DeliveredOrder marks a Processing order as Completed.
func DeliveredOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	_, _, _, uid := middlewareUser(r)
	orderId := mux.Vars(r)["order_id"]

	var order models.Order
	err := orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		writeError(w, apperr.New(apperr.NotFound, "Order not found"))
		return
	} else if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving order"}`, http.StatusInternalServerError)
		return
	}

	if !models.CanTransition(order.Status, models.StatusCompleted) {
		writeError(w, apperr.Newf(apperr.State, "Order in status %s can't be delivered", order.Status))
		return
	}

	result, err := orderCollection.UpdateOne(ctx,
		bson.M{"order_id": orderId, "status": models.StatusProcessing},
		bson.M{"$set": bson.M{"status": models.StatusCompleted, "updated_by": uid, "updated_at": time.Now()}})
	if err != nil {
		http.Error(w, `{"success": false, "message": "Failed to update order"}`, http.StatusInternalServerError)
		return
	}
	if result.ModifiedCount == 0 {
		writeError(w, apperr.New(apperr.State, "Order is no longer processing"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order marked as delivered",
	})
}

// RejectOrder is the administrative kill switch for any non-terminal order.
func RejectOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	_, _, _, uid := middlewareUser(r)
	orderId := mux.Vars(r)["order_id"]

	var requestBody struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&requestBody)

	var order models.Order
	err := orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		writeError(w, apperr.New(apperr.NotFound, "Order not found"))
		return
	} else if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving order"}`, http.StatusInternalServerError)
		return
	}

	if !models.CanTransition(order.Status, models.StatusRejected) {
		writeError(w, apperr.Newf(apperr.State, "Order in status %s can't be rejected", order.Status))
		return
	}

	result, err := orderCollection.UpdateOne(ctx,
		bson.M{"order_id": orderId, "status": order.Status},
		bson.M{"$set": bson.M{
			"status":     models.StatusRejected,
			"reason":     requestBody.Reason,
			"updated_by": uid,
			"updated_at": time.Now(),
		}})
	if err != nil {
		http.Error(w, `{"success": false, "message": "Failed to reject order"}`, http.StatusInternalServerError)
		return
	}
	if result.ModifiedCount == 0 {
		writeError(w, apperr.New(apperr.State, "Order changed state, try again"))
		return
	}

	cancelCleanup(ctx, order)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order rejected successfully",
	})
}

// paginatedOrders runs the shared aggregation listing for a match filter.
func paginatedOrders(w http.ResponseWriter, r *http.Request, match bson.D, emptyMessage string) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	recordPerPage, err := strconv.Atoi(r.URL.Query().Get("recordPerPage"))
	if err != nil || recordPerPage < 1 {
		recordPerPage = 10
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	startIndex := (page - 1) * recordPerPage

	matchStage := bson.D{{Key: "$match", Value: match}}
	sortStage := bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}}
	skipStage := bson.D{{Key: "$skip", Value: startIndex}}
	limitStage := bson.D{{Key: "$limit", Value: int64(recordPerPage)}}

	cursor, err := orderCollection.Aggregate(ctx, mongo.Pipeline{matchStage, sortStage, skipStage, limitStage})
	if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving orders"}`, http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		http.Error(w, `{"success": false, "message": "Error decoding orders data"}`, http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	filter := bson.M{}
	for _, e := range match {
		filter[e.Key] = e.Value
	}
	totalOrders, err := orderCollection.CountDocuments(ctx, filter)
	if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving total order count"}`, http.StatusInternalServerError)
		return
	}

	message := "Orders retrieved successfully"
	if len(orders) == 0 {
		message = emptyMessage
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": message,
		"data":    orders,
		"pagination": map[string]interface{}{
			"current_page":     page,
			"records_per_page": recordPerPage,
			"total_orders":     totalOrders,
			"total_pages":      (totalOrders + int64(recordPerPage) - 1) / int64(recordPerPage),
		},
	})
}

// GetOrders lists every order. Admin surface.
func GetOrders(w http.ResponseWriter, r *http.Request) {
	paginatedOrders(w, r, bson.D{}, "No orders yet")
}

// GetUserOrders lists the calling user's own orders.
func GetUserOrders(w http.ResponseWriter, r *http.Request) {
	_, _, _, uid := middlewareUser(r)
	paginatedOrders(w, r, bson.D{{Key: "user_id", Value: uid}}, "No orders found for this user")
}

// GetLocationOrders lists orders for a fulfilling location. Admin surface.
func GetLocationOrders(w http.ResponseWriter, r *http.Request) {
	locationId := mux.Vars(r)["location_id"]
	if locationId == "" {
		http.Error(w, `{"success": false, "message": "Invalid location ID"}`, http.StatusBadRequest)
		return
	}
	paginatedOrders(w, r, bson.D{{Key: "location_id", Value: locationId}}, "No orders found for this location")
}

func GetOrderById(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	_, _, _, uid := middlewareUser(r)
	orderId := mux.Vars(r)["order_id"]
	if orderId == "" {
		http.Error(w, `{"success": false, "message": "Invalid order ID"}`, http.StatusBadRequest)
		return
	}

	var order models.Order
	err := orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		writeError(w, apperr.New(apperr.NotFound, "Order not found"))
		return
	} else if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving order"}`, http.StatusInternalServerError)
		return
	}

	role := middleware.GetRoleFromContext(r)
	if order.User_id != uid && !middleware.Authorized(role, models.RoleAdmin, models.RoleSuperAdmin) {
		http.Error(w, `{"success": false, "message": "Access denied"}`, http.StatusForbidden)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order retrieved successfully",
		"data":    order,
	})
}
