package payment

import (
	"testing"

	"github.com/plutov/paypal/v4"
	"github.com/stretchr/testify/assert"
)

func TestCaptureReferencesOrderByReferenceID(t *testing.T) {
	capture := &paypal.CaptureOrderResponse{
		Status: "COMPLETED",
		PurchaseUnits: []paypal.CapturedPurchaseUnit{
			{ReferenceID: "order-123"},
		},
	}

	assert.True(t, captureReferencesOrder(capture, "order-123"))
}

func TestCaptureReferencesOrderByCaptureCustomID(t *testing.T) {
	capture := &paypal.CaptureOrderResponse{
		Status: "COMPLETED",
		PurchaseUnits: []paypal.CapturedPurchaseUnit{
			{
				Payments: &paypal.CapturedPayments{
					Captures: []paypal.CaptureAmount{{CustomID: "order-456"}},
				},
			},
		},
	}

	assert.True(t, captureReferencesOrder(capture, "order-456"))
}

// A completed capture for some other order must never be accepted: the
// capture token arrives on an unauthenticated redirect, so an attacker
// can pair their own approved capture with any order id they like.
func TestCaptureForDifferentOrderRejected(t *testing.T) {
	capture := &paypal.CaptureOrderResponse{
		Status: "COMPLETED",
		PurchaseUnits: []paypal.CapturedPurchaseUnit{
			{
				ReferenceID: "attacker-order",
				Payments: &paypal.CapturedPayments{
					Captures: []paypal.CaptureAmount{{CustomID: "attacker-order"}},
				},
			},
		},
	}

	assert.False(t, captureReferencesOrder(capture, "victim-order"))
}

func TestCaptureWithNoUnitsRejected(t *testing.T) {
	capture := &paypal.CaptureOrderResponse{Status: "COMPLETED"}

	assert.False(t, captureReferencesOrder(capture, "order-123"))
	assert.False(t, captureReferencesOrder(capture, ""))
}
