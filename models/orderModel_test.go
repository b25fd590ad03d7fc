package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusPending, StatusProcessing},
		{StatusPending, StatusCancelled},
		{StatusPending, StatusRejected},
		{StatusProcessing, StatusCompleted},
		{StatusProcessing, StatusRejected},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr.from, tr.to), "%s -> %s", tr.from, tr.to)
	}

	denied := []struct{ from, to string }{
		{StatusPending, StatusCompleted},    // delivering an unpaid order
		{StatusProcessing, StatusCancelled}, // cancelling after payment
		{StatusProcessing, StatusPending},
		{StatusCompleted, StatusRejected},
		{StatusCompleted, StatusProcessing},
		{StatusCancelled, StatusProcessing},
		{StatusRejected, StatusPending},
		{StatusPending, StatusPending},
	}
	for _, tr := range denied {
		assert.False(t, CanTransition(tr.from, tr.to), "%s -> %s", tr.from, tr.to)
	}
}

func TestTerminal(t *testing.T) {
	assert.False(t, Terminal(StatusPending))
	assert.False(t, Terminal(StatusProcessing))
	assert.True(t, Terminal(StatusCompleted))
	assert.True(t, Terminal(StatusCancelled))
	assert.True(t, Terminal(StatusRejected))
}

func TestValidPaymentType(t *testing.T) {
	assert.True(t, ValidPaymentType(PayCard))
	assert.True(t, ValidPaymentType(PayPayPal))
	assert.True(t, ValidPaymentType(PayWallet))
	assert.False(t, ValidPaymentType("Cash"))
}

func TestValidateFulfillment(t *testing.T) {
	// 2026-03-10 14:30 in a zone five hours west of UTC.
	zone := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, zone)

	assert.NoError(t, validateFulfillmentAt("2026-03-11", "09:00", now))
	assert.NoError(t, validateFulfillmentAt("2026-03-10", "15:00", now))

	err := validateFulfillmentAt("2026-03-09", "12:00", now)
	assert.Error(t, err)

	// Same-day orders earlier than the clock are rejected. The date must
	// parse in now's zone for this comparison to fire at all; parsed as
	// UTC, 2026-03-10 would land on a different calendar day here.
	err = validateFulfillmentAt("2026-03-10", "12:00", now)
	assert.Error(t, err)

	assert.Error(t, validateFulfillmentAt("10-03-2026", "12:00", now))
	assert.Error(t, validateFulfillmentAt("2026-03-10", "noon", now))
}

func TestValidateFulfillmentEastOfUTC(t *testing.T) {
	zone := time.FixedZone("UTC+9", 9*60*60)
	now := time.Date(2026, 3, 10, 23, 50, 0, 0, zone)

	// Local tomorrow is still "today or earlier" in UTC; it must not be
	// rejected as past.
	assert.NoError(t, validateFulfillmentAt("2026-03-11", "00:30", now))
	assert.Error(t, validateFulfillmentAt("2026-03-10", "23:00", now))
}
