// Package payment wraps the hosted-checkout providers. Each provider
// initiates a payment for a pending order and later reports back through a
// redirect or a signed webhook; callers normalize both into the same
// confirmation path.
package payment

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/abanoubmamdouhhanna/cfc/apperr"
	"github.com/abanoubmamdouhhanna/cfc/models"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/coupon"
	"github.com/stripe/stripe-go/v76/webhook"
)

// InitStripe sets the API key once at startup.
func InitStripe() {
	stripe.Key = os.Getenv("STRIPE_KEY")
}

func cents(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// StripeLineItems mirrors the order's priced line items into checkout line
// items. Each line carries the item total (base price times quantity plus
// only the charged addon amounts), so quantity is always 1; tax is a
// separate line.
func StripeLineItems(order models.Order) []*stripe.CheckoutSessionLineItemParams {
	var items []*stripe.CheckoutSessionLineItemParams
	for _, meal := range order.Meals {
		name := fmt.Sprintf("%s (Qty: %d)", meal.Title, meal.Quantity)
		if meal.Is_combo {
			name += " [Combo]"
		}
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("usd"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(name),
					Description: stripe.String(fmt.Sprintf(
						"Includes selected sauces, drinks, and sides (first %d of each type are free).",
						meal.Quantity)),
				},
				UnitAmount: stripe.Int64(cents(meal.Item_total)),
			},
			Quantity: stripe.Int64(1),
		})
	}
	if order.Tax > 0 {
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("usd"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("Tax"),
				},
				UnitAmount: stripe.Int64(cents(order.Tax)),
			},
			Quantity: stripe.Int64(1),
		})
	}
	return items
}

// CreateStripeSession builds a hosted checkout session for the order and
// returns its id and redirect URL. The order id travels in session metadata
// so the webhook can find it.
func CreateStripeSession(order models.Order, couponApplied *models.Coupon, customerEmail string) (sessionID, url string, err error) {
	frontend := os.Getenv("FRONTEND_URL")

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CustomerEmail:      stripe.String(customerEmail),
		LineItems:          StripeLineItems(order),
		SuccessURL: stripe.String(fmt.Sprintf(
			"%s/order/stripePayment/success?orderId=%s&session_id={CHECKOUT_SESSION_ID}", frontend, order.Order_id)),
		CancelURL: stripe.String(fmt.Sprintf(
			"%s/order/stripePayment/cancel?orderId=%s", frontend, order.Order_id)),
	}
	params.AddMetadata("order_id", order.Order_id)

	if couponApplied != nil && order.Discount > 0 {
		stripeCoupon, couponErr := coupon.New(&stripe.CouponParams{
			AmountOff: stripe.Int64(cents(order.Discount)),
			Currency:  stripe.String("usd"),
			Duration:  stripe.String("once"),
			Name:      stripe.String(fmt.Sprintf("Order Discount (%.0f%%)", couponApplied.Amount)),
		})
		if couponErr != nil {
			// Discount is already baked into order totals; the session can
			// proceed without the display coupon.
			log.Printf("Failed to create Stripe coupon: %v", couponErr)
		} else {
			params.Discounts = []*stripe.CheckoutSessionDiscountParams{
				{Coupon: stripe.String(stripeCoupon.ID)},
			}
		}
	}

	s, err := session.New(params)
	if err != nil {
		return "", "", apperr.Wrap(apperr.External, "Payment session creation failed. Please try again.", err)
	}
	return s.ID, s.URL, nil
}

// VerifyStripeSession confirms with Stripe that a checkout session was
// actually paid. Redirect query parameters are never trusted on their own.
func VerifyStripeSession(sessionID string) error {
	s, err := session.Get(sessionID, nil)
	if err != nil {
		return apperr.Wrap(apperr.External, "Failed to verify Stripe session", err)
	}
	if s.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return apperr.New(apperr.Validation, "Stripe payment not completed")
	}
	return nil
}

// StripeWebhookEvent is the normalized result of a verified webhook.
type StripeWebhookEvent struct {
	Type    string
	OrderID string
}

// ParseStripeWebhook verifies the webhook signature and extracts the order
// id from session metadata. An invalid signature is an error; the payload
// must never be trusted without it.
func ParseStripeWebhook(payload []byte, signatureHeader string) (StripeWebhookEvent, error) {
	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	event, err := webhook.ConstructEvent(payload, signatureHeader, secret)
	if err != nil {
		return StripeWebhookEvent{}, apperr.Wrap(apperr.Validation, "Invalid webhook signature", err)
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return StripeWebhookEvent{}, apperr.Wrap(apperr.Validation, "Invalid webhook payload", err)
	}
	return StripeWebhookEvent{
		Type:    string(event.Type),
		OrderID: sess.Metadata["order_id"],
	}, nil
}
