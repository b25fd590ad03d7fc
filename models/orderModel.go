package models

import (
	"time"

	"github.com/abanoubmamdouhhanna/cfc/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order lifecycle states.
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusCompleted  = "Completed"
	StatusCancelled  = "Cancelled"
	StatusRejected   = "Rejected"
)

// Payment states and methods.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"

	PayCard   = "Card"
	PayPayPal = "PayPal"
	PayWallet = "Wallet"
)

func ValidPaymentType(t string) bool {
	return t == PayCard || t == PayPayPal || t == PayWallet
}

// OrderAddon is a priced addon snapshot on an order line. Price is the
// amount actually charged: 0 while within the free allowance.
type OrderAddon struct {
	Option_id string  `bson:"option_id" json:"option_id"`
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
}

// PricedLineItem is the immutable snapshot of one ordered meal. It is
// written once at order-assembly time and never recalculated.
type PricedLineItem struct {
	Meal_id    string       `bson:"meal_id" json:"meal_id"`
	Title      string       `bson:"title" json:"title"`
	Unit_price float64      `bson:"unit_price" json:"unit_price"`
	Quantity   int          `bson:"quantity" json:"quantity"`
	Is_combo   bool         `bson:"is_combo" json:"is_combo"`
	Sauces     []OrderAddon `bson:"sauces" json:"sauces"`
	Drinks     []OrderAddon `bson:"drinks" json:"drinks"`
	Sides      []OrderAddon `bson:"sides" json:"sides"`
	Item_total float64      `bson:"item_total" json:"item_total"`
}

type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Order_id    string             `bson:"order_id" json:"order_id"`
	User_id     string             `bson:"user_id" json:"user_id"`
	Location_id string             `bson:"location_id" json:"location_id"`

	Address string `bson:"address" json:"address" validate:"required"`
	City    string `bson:"city" json:"city" validate:"required"`
	State   string `bson:"state" json:"state" validate:"required"`
	Phone   string `bson:"phone" json:"phone" validate:"required"`

	Meals       []PricedLineItem `bson:"meals" json:"meals"`
	Coupon_id   string           `bson:"coupon_id,omitempty" json:"coupon_id,omitempty"`
	Discount    float64          `bson:"discount" json:"discount"`
	Final_price float64          `bson:"final_price" json:"final_price"` // after discount, before tax
	Tax         float64          `bson:"tax" json:"tax"`
	Total_price float64          `bson:"total_price" json:"total_price"`

	Payment_type   string `bson:"payment_type" json:"payment_type"`
	Payment_status string `bson:"payment_status" json:"payment_status"`
	Status         string `bson:"status" json:"status"`
	Reason         string `bson:"reason,omitempty" json:"reason,omitempty"`

	Order_date string `bson:"order_date" json:"order_date" validate:"required"`
	Order_time string `bson:"order_time" json:"order_time" validate:"required"`

	Invoice_url       string `bson:"invoice_url,omitempty" json:"invoice_url,omitempty"`
	Invoice_handle    string `bson:"invoice_handle,omitempty" json:"invoice_handle,omitempty"`
	Stripe_session_id string `bson:"stripe_session_id,omitempty" json:"stripe_session_id,omitempty"`
	Payment_url       string `bson:"payment_url,omitempty" json:"payment_url,omitempty"`

	Updated_by string    `bson:"updated_by,omitempty" json:"updated_by,omitempty"`
	Is_deleted bool      `bson:"is_deleted" json:"is_deleted"`
	Created_at time.Time `bson:"created_at" json:"created_at"`
	Updated_at time.Time `bson:"updated_at" json:"updated_at"`
}

// transitions is the full set of legal lifecycle moves. Everything else is
// rejected; terminal states have no outgoing edges.
var transitions = map[string][]string{
	StatusPending:    {StatusProcessing, StatusCancelled, StatusRejected},
	StatusProcessing: {StatusCompleted, StatusRejected},
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether a status has no outgoing transitions.
func Terminal(status string) bool {
	return len(transitions[status]) == 0
}

// ValidateFulfillment checks the requested date/time is parseable and not
// in the past. Same-day orders must be later than the current clock time.
func ValidateFulfillment(orderDate, orderTime string) error {
	return validateFulfillmentAt(orderDate, orderTime, time.Now())
}

func validateFulfillmentAt(orderDate, orderTime string, now time.Time) error {
	// Both sides of the comparison live in now's zone; parsing the date
	// in UTC would shift same-day orders onto the wrong calendar day.
	date, err := time.ParseInLocation("2006-01-02", orderDate, now.Location())
	if err != nil {
		return apperr.New(apperr.Validation, "Invalid order date, expected YYYY-MM-DD")
	}
	clock, err := time.Parse("15:04", orderTime)
	if err != nil {
		return apperr.New(apperr.Validation, "Invalid order time, expected HH:MM")
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return apperr.New(apperr.Validation, "Order date can't be in the past")
	}
	if date.Equal(today) {
		requested := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())
		if requested.Before(now) {
			return apperr.New(apperr.Validation, "Order time must be in the future")
		}
	}
	return nil
}
