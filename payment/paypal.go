package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/abanoubmamdouhhanna/cfc/apperr"
	"github.com/abanoubmamdouhhanna/cfc/models"
	"github.com/plutov/paypal/v4"
)

var (
	paypalOnce   sync.Once
	paypalClient *paypal.Client
	paypalErr    error
)

func client() (*paypal.Client, error) {
	paypalOnce.Do(func() {
		base := paypal.APIBaseSandBox
		if os.Getenv("PAYPAL_MODE") == "live" {
			base = paypal.APIBaseLive
		}
		paypalClient, paypalErr = paypal.NewClient(
			os.Getenv("PAYPAL_CLIENT_ID"),
			os.Getenv("PAYPAL_CLIENT_SECRET"),
			base,
		)
	})
	if paypalErr != nil {
		return nil, apperr.Wrap(apperr.External, "PayPal client initialization failed", paypalErr)
	}
	return paypalClient, nil
}

func money(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// CreatePayPalOrder creates a provider order referencing ours and returns
// the approval URL for the redirect.
func CreatePayPalOrder(ctx context.Context, order models.Order) (approveURL string, err error) {
	c, err := client()
	if err != nil {
		return "", err
	}

	frontend := os.Getenv("FRONTEND_URL")
	units := []paypal.PurchaseUnitRequest{{
		ReferenceID: order.Order_id,
		CustomID:    order.Order_id,
		Amount: &paypal.PurchaseUnitAmount{
			Currency: "USD",
			Value:    money(order.Total_price),
			Breakdown: &paypal.PurchaseUnitAmountBreakdown{
				ItemTotal: &paypal.Money{Currency: "USD", Value: money(order.Final_price)},
				TaxTotal:  &paypal.Money{Currency: "USD", Value: money(order.Tax)},
			},
		},
	}}
	appCtx := &paypal.ApplicationContext{
		BrandName:  "Crunchy Fried Chicken",
		UserAction: paypal.UserActionPayNow,
		ReturnURL:  fmt.Sprintf("%s/order/paypalPayment/success?orderId=%s", frontend, order.Order_id),
		CancelURL:  fmt.Sprintf("%s/order/paypalPayment/cancel?orderId=%s", frontend, order.Order_id),
	}

	created, err := c.CreateOrder(ctx, paypal.OrderIntentCapture, units, nil, appCtx)
	if err != nil {
		return "", apperr.Wrap(apperr.External, "PayPal payment initialization failed", err)
	}

	for _, link := range created.Links {
		if link.Rel == "approve" {
			return link.Href, nil
		}
	}
	return "", apperr.New(apperr.External, "PayPal approval link not found")
}

// CapturePayPalOrder captures an approved PayPal order by its provider
// token and verifies both that it completed and that it was created for
// orderID. The token arrives on an unauthenticated redirect, so without
// the reference check any approved capture could settle any order.
func CapturePayPalOrder(ctx context.Context, token, orderID string) error {
	c, err := client()
	if err != nil {
		return err
	}
	capture, err := c.CaptureOrder(ctx, token, paypal.CaptureOrderRequest{})
	if err != nil {
		return apperr.Wrap(apperr.External, "PayPal payment capture failed", err)
	}
	if capture.Status != "COMPLETED" {
		return apperr.Newf(apperr.Validation, "PayPal payment not completed. Status: %s", capture.Status)
	}
	if !captureReferencesOrder(capture, orderID) {
		return apperr.New(apperr.Validation, "PayPal capture does not belong to this order")
	}
	return nil
}

// captureReferencesOrder checks the captured purchase units carry our
// order id, either as the unit's reference_id or the capture's custom_id
// (the create path sets both).
func captureReferencesOrder(capture *paypal.CaptureOrderResponse, orderID string) bool {
	if orderID == "" {
		return false
	}
	for _, unit := range capture.PurchaseUnits {
		if unit.ReferenceID == orderID {
			return true
		}
		if unit.Payments == nil {
			continue
		}
		for _, captured := range unit.Payments.Captures {
			if captured.CustomID == orderID {
				return true
			}
		}
	}
	return false
}

// VerifyPayPalWebhook checks the webhook transmission signature against the
// configured webhook id. Requests failing verification must be rejected
// without touching order state.
func VerifyPayPalWebhook(ctx context.Context, r *http.Request) error {
	c, err := client()
	if err != nil {
		return err
	}
	resp, err := c.VerifyWebhookSignature(ctx, r, os.Getenv("PAYPAL_WEBHOOK_ID"))
	if err != nil {
		return apperr.Wrap(apperr.External, "PayPal webhook verification failed", err)
	}
	if resp.VerificationStatus != "SUCCESS" {
		return apperr.New(apperr.Validation, "Invalid webhook signature")
	}
	return nil
}

// PayPalWebhookEvent is the normalized result of a verified webhook
// delivery. OrderID is our order id carried in the capture's custom_id.
type PayPalWebhookEvent struct {
	Type    string
	OrderID string
}

// ParsePayPalWebhook verifies the delivery signature and extracts the
// event type and referenced order. Signature verification consumes the
// request body, so it is buffered and restored first.
func ParsePayPalWebhook(ctx context.Context, r *http.Request) (PayPalWebhookEvent, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		return PayPalWebhookEvent{}, apperr.Wrap(apperr.Validation, "Failed to read webhook payload", err)
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	if err := VerifyPayPalWebhook(ctx, r); err != nil {
		return PayPalWebhookEvent{}, err
	}

	var event struct {
		EventType string `json:"event_type"`
		Resource  struct {
			CustomID string `json:"custom_id"`
		} `json:"resource"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		return PayPalWebhookEvent{}, apperr.Wrap(apperr.Validation, "Malformed webhook payload", err)
	}
	return PayPalWebhookEvent{Type: event.EventType, OrderID: event.Resource.CustomID}, nil
}
