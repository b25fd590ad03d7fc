package payment

import (
	"testing"

	"github.com/abanoubmamdouhhanna/cfc/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripeLineItemsMirrorOrder(t *testing.T) {
	order := models.Order{
		Order_id: "o1",
		Meals: []models.PricedLineItem{
			{
				Title:      "Crunchy Bucket",
				Quantity:   2,
				Is_combo:   true,
				Unit_price: 12,
				Sauces: []models.OrderAddon{
					{Option_id: "s1", Price: 0},
					{Option_id: "s2", Price: 0},
					{Option_id: "s3", Price: 1},
				},
				Item_total: 25,
			},
			{Title: "Wings", Quantity: 1, Unit_price: 8, Item_total: 8},
		},
		Tax: 2.31,
	}

	items := StripeLineItems(order)
	require.Len(t, items, 3)

	// Line totals are in cents and already include only charged addons.
	assert.Equal(t, int64(2500), *items[0].PriceData.UnitAmount)
	assert.Equal(t, "Crunchy Bucket (Qty: 2) [Combo]", *items[0].PriceData.ProductData.Name)
	assert.Equal(t, int64(1), *items[0].Quantity)

	assert.Equal(t, int64(800), *items[1].PriceData.UnitAmount)

	assert.Equal(t, "Tax", *items[2].PriceData.ProductData.Name)
	assert.Equal(t, int64(231), *items[2].PriceData.UnitAmount)
}

func TestStripeLineItemsNoTaxLineWhenZero(t *testing.T) {
	order := models.Order{
		Meals: []models.PricedLineItem{{Title: "Wings", Quantity: 1, Item_total: 8}},
	}
	items := StripeLineItems(order)
	assert.Len(t, items, 1)
}

func TestCentsRounds(t *testing.T) {
	assert.Equal(t, int64(4815), cents(48.15))
	assert.Equal(t, int64(100), cents(0.999))
	assert.Equal(t, int64(0), cents(0))
}
