package controller

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/abanoubmamdouhhanna/cfc/apperr"
	"github.com/abanoubmamdouhhanna/cfc/invoice"
	"github.com/abanoubmamdouhhanna/cfc/models"
	"github.com/abanoubmamdouhhanna/cfc/notify"
	"github.com/abanoubmamdouhhanna/cfc/payment"
	"github.com/abanoubmamdouhhanna/cfc/wallet"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var invoiceService = invoice.NewService()

// confirmPayment is the single path that settles an order, shared by the
// wallet flow, the provider redirects, and the webhooks. The guarded
// update is the idempotency barrier: only one caller can move the order
// out of pending, every later caller gets AlreadyProcessed. Points are
// rewarded and the invoice generated exactly once as a consequence.
func confirmPayment(ctx context.Context, orderId string) (models.Order, error) {
	after := options.After
	var order models.Order
	err := orderCollection.FindOneAndUpdate(ctx,
		bson.M{
			"order_id":       orderId,
			"status":         models.StatusPending,
			"payment_status": models.PaymentPending,
		},
		bson.M{
			"$set": bson.M{
				"payment_status": models.PaymentPaid,
				"status":         models.StatusProcessing,
				"updated_at":     time.Now(),
			},
			"$unset": bson.M{"stripe_session_id": "", "payment_url": ""},
		},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&order)

	if errors.Is(err, mongo.ErrNoDocuments) {
		// Lost the race, or the order never existed.
		findErr := orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order)
		if findErr != nil {
			return models.Order{}, apperr.New(apperr.NotFound, "Order not found")
		}
		if order.Payment_status == models.PaymentPaid {
			return order, apperr.New(apperr.Conflict, "Payment already processed")
		}
		return order, apperr.Newf(apperr.State, "Order in status %s can't be paid", order.Status)
	} else if err != nil {
		return models.Order{}, apperr.Wrap(apperr.Internal, "Failed to confirm payment", err)
	}

	// Post-confirmation side effects are best-effort: the payment is
	// settled, a failed invoice or notification must not undo that.
	var user models.User
	if err := userCollection.FindOne(ctx, bson.M{"user_id": order.User_id}).Decode(&user); err == nil {
		if err := invoiceService.Process(ctx, order, user); err != nil {
			log.Printf("invoice generation failed for order %s: %v", order.Order_id, err)
		}
	} else {
		log.Printf("user lookup failed for order %s invoice: %v", order.Order_id, err)
	}

	if _, err := wallet.Reward(ctx, order.User_id, order.Order_id, order.Total_price); err != nil {
		log.Printf("loyalty reward failed for order %s: %v", order.Order_id, err)
	}

	notify.PublishOrder(order)

	return order, nil
}

// cancelPending cancels a Pending order after a denied or expired
// provider payment, with the usual coupon/invoice/handle cleanup.
func cancelPending(ctx context.Context, orderId string) error {
	var order models.Order
	err := orderCollection.FindOneAndUpdate(ctx,
		bson.M{"order_id": orderId, "status": models.StatusPending},
		bson.M{"$set": bson.M{"status": models.StatusCancelled, "updated_at": time.Now()}},
	).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.New(apperr.NotFound, "No pending order to cancel")
	} else if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to cancel order", err)
	}
	cancelCleanup(ctx, order)
	return nil
}

// StripeSuccess is the user-redirect landing after a hosted checkout.
// The session is verified with the provider before the order settles;
// the redirect alone is never trusted.
func StripeSuccess(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	orderId := r.URL.Query().Get("orderId")
	if orderId == "" {
		http.Error(w, `{"success": false, "message": "Missing orderId"}`, http.StatusBadRequest)
		return
	}

	var order models.Order
	if err := orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order); err != nil {
		writeError(w, apperr.New(apperr.NotFound, "Order not found"))
		return
	}
	if order.Payment_status == models.PaymentPending {
		if err := payment.VerifyStripeSession(order.Stripe_session_id); err != nil {
			writeError(w, err)
			return
		}
	}

	confirmed, err := confirmPayment(ctx, orderId)
	if err != nil && !apperr.IsKind(err, apperr.Conflict) {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Payment completed successfully",
		"data":    confirmed,
	})
}

func StripeCancel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	orderId := r.URL.Query().Get("orderId")
	if orderId == "" {
		http.Error(w, `{"success": false, "message": "Missing orderId"}`, http.StatusBadRequest)
		return
	}

	if err := cancelPending(ctx, orderId); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Payment cancelled, order has been cancelled",
	})
}

// StripeWebhook handles asynchronous checkout events. A bad signature is
// rejected without touching any order; handled and intentionally ignored
// events both return 2xx so the provider stops redelivering.
func StripeWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		http.Error(w, `{"success": false, "message": "Failed to read payload"}`, http.StatusBadRequest)
		return
	}

	event, err := payment.ParseStripeWebhook(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		http.Error(w, `{"success": false, "message": "Invalid webhook signature"}`, http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		if _, err := confirmPayment(ctx, event.OrderID); err != nil && !apperr.IsKind(err, apperr.Conflict) {
			log.Printf("stripe webhook: confirm failed for order %s: %v", event.OrderID, err)
			http.Error(w, `{"success": false, "message": "Failed to process payment"}`, http.StatusInternalServerError)
			return
		}
	case "checkout.session.expired":
		if err := cancelPending(ctx, event.OrderID); err != nil && !apperr.IsKind(err, apperr.NotFound) {
			log.Printf("stripe webhook: cancel failed for order %s: %v", event.OrderID, err)
		}
	default:
		// Unsubscribed event type, acknowledge and move on.
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"received": true})
}

// PayPalSuccess captures an approved provider order using the token from
// the redirect, then settles ours.
func PayPalSuccess(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	orderId := r.URL.Query().Get("orderId")
	token := r.URL.Query().Get("token")
	if orderId == "" || token == "" {
		http.Error(w, `{"success": false, "message": "Missing orderId or token"}`, http.StatusBadRequest)
		return
	}

	var order models.Order
	if err := orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order); err != nil {
		writeError(w, apperr.New(apperr.NotFound, "Order not found"))
		return
	}
	if order.Payment_status == models.PaymentPending {
		if err := payment.CapturePayPalOrder(ctx, token, orderId); err != nil {
			writeError(w, err)
			return
		}
	}

	confirmed, err := confirmPayment(ctx, orderId)
	if err != nil && !apperr.IsKind(err, apperr.Conflict) {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Payment completed successfully",
		"data":    confirmed,
	})
}

func PayPalCancel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	orderId := r.URL.Query().Get("orderId")
	if orderId == "" {
		http.Error(w, `{"success": false, "message": "Missing orderId"}`, http.StatusBadRequest)
		return
	}

	if err := cancelPending(ctx, orderId); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Payment cancelled, order has been cancelled",
	})
}

// PayPalWebhook verifies the transmission signature with the provider
// before trusting the event body.
func PayPalWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	event, err := payment.ParsePayPalWebhook(ctx, r)
	if err != nil {
		http.Error(w, `{"success": false, "message": "Invalid webhook signature"}`, http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "PAYMENT.CAPTURE.COMPLETED":
		if _, err := confirmPayment(ctx, event.OrderID); err != nil && !apperr.IsKind(err, apperr.Conflict) {
			log.Printf("paypal webhook: confirm failed for order %s: %v", event.OrderID, err)
			http.Error(w, `{"success": false, "message": "Failed to process payment"}`, http.StatusInternalServerError)
			return
		}
	case "PAYMENT.CAPTURE.DENIED":
		if err := cancelPending(ctx, event.OrderID); err != nil && !apperr.IsKind(err, apperr.NotFound) {
			log.Printf("paypal webhook: cancel failed for order %s: %v", event.OrderID, err)
		}
	default:
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"received": true})
}
