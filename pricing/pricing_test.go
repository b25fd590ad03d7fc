package pricing

import (
	"testing"
	"time"

	"github.com/abanoubmamdouhhanna/cfc/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mealFixture() CatalogMeal {
	return CatalogMeal{
		ID:              "meal-1",
		Title:           "Crunchy Bucket",
		FinalPrice:      10,
		FinalComboPrice: 12,
		Available:       true,
	}
}

func sauce(id string, price float64) *CatalogOption {
	return &CatalogOption{ID: id, Name: "Sauce " + id, Price: price, Available: true}
}

func TestPriceMealSelectionFirstNFree(t *testing.T) {
	// Quantity 2 with 3 sauces: first 2 free, 3rd charged.
	item, err := PriceMealSelection(mealFixture(), 2, true,
		[]*CatalogOption{sauce("s1", 1), sauce("s2", 1), sauce("s3", 1)}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 12.0, item.Unit_price)
	require.Len(t, item.Sauces, 3)
	assert.Equal(t, 0.0, item.Sauces[0].Price)
	assert.Equal(t, 0.0, item.Sauces[1].Price)
	assert.Equal(t, 1.0, item.Sauces[2].Price)
	// 12 * 2 + 1
	assert.Equal(t, 25.0, item.Item_total)
}

func TestPriceMealSelectionAllowancePerCategory(t *testing.T) {
	// Allowance applies to each category independently.
	item, err := PriceMealSelection(mealFixture(), 1, true,
		[]*CatalogOption{sauce("s1", 0.5), sauce("s2", 0.5)},
		[]*CatalogOption{sauce("d1", 2), sauce("d2", 2)},
		[]*CatalogOption{sauce("x1", 3)})
	require.NoError(t, err)

	// One free per category; each second entry charged.
	assert.Equal(t, 0.0, item.Sauces[0].Price)
	assert.Equal(t, 0.5, item.Sauces[1].Price)
	assert.Equal(t, 0.0, item.Drinks[0].Price)
	assert.Equal(t, 2.0, item.Drinks[1].Price)
	assert.Equal(t, 0.0, item.Sides[0].Price)
	assert.Equal(t, 12.0+0.5+2.0, item.Item_total)
}

func TestPriceMealSelectionFreeCountProperty(t *testing.T) {
	for quantity := 1; quantity <= 4; quantity++ {
		for chosen := 0; chosen <= 6; chosen++ {
			var sauces []*CatalogOption
			for i := 0; i < chosen; i++ {
				sauces = append(sauces, sauce("s", 1))
			}
			item, err := PriceMealSelection(mealFixture(), quantity, false, sauces, nil, nil)
			require.NoError(t, err)

			free, charged := 0, 0
			for _, s := range item.Sauces {
				if s.Price == 0 {
					free++
				} else {
					charged++
				}
			}
			expectFree := chosen
			if quantity < chosen {
				expectFree = quantity
			}
			assert.Equal(t, expectFree, free, "quantity=%d chosen=%d", quantity, chosen)
			assert.Equal(t, chosen-expectFree, charged, "quantity=%d chosen=%d", quantity, chosen)
		}
	}
}

func TestPriceMealSelectionDropsUnavailableOptions(t *testing.T) {
	missing := (*CatalogOption)(nil)
	unavailable := &CatalogOption{ID: "u1", Name: "Gone", Price: 5, Available: false}

	item, err := PriceMealSelection(mealFixture(), 1, true,
		[]*CatalogOption{missing, unavailable, sauce("s1", 1)}, nil, nil)
	require.NoError(t, err)

	// Dropped entries are not charged and not included, but keep their
	// position: s1 sits at index 2, beyond the allowance of 1.
	require.Len(t, item.Sauces, 1)
	assert.Equal(t, "s1", item.Sauces[0].Option_id)
	assert.Equal(t, 1.0, item.Sauces[0].Price)
	assert.Equal(t, 13.0, item.Item_total)
}

func TestPriceMealSelectionNonComboUsesBasePrice(t *testing.T) {
	item, err := PriceMealSelection(mealFixture(), 3, false, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 10.0, item.Unit_price)
	assert.Equal(t, 30.0, item.Item_total)
}

func TestPriceMealSelectionDeletedMeal(t *testing.T) {
	meal := mealFixture()
	meal.Deleted = true
	_, err := PriceMealSelection(meal, 1, false, nil, nil, nil)
	assert.Error(t, err)
}

func TestTotals(t *testing.T) {
	coupon := &models.Coupon{Name: "SAVE10", Amount: 10, Expire: time.Now().Add(time.Hour)}

	discount, finalPrice, tax, total := Totals(50, coupon, 7)
	assert.Equal(t, 5.0, discount)
	assert.Equal(t, 45.0, finalPrice)
	assert.Equal(t, 3.15, tax)
	assert.Equal(t, 48.15, total)
}

func TestTotalsNoCoupon(t *testing.T) {
	discount, finalPrice, tax, total := Totals(20, nil, 0)
	assert.Equal(t, 0.0, discount)
	assert.Equal(t, 20.0, finalPrice)
	assert.Equal(t, 0.0, tax)
	assert.Equal(t, 20.0, total)
}

func TestTotalsReproducibleFromSnapshot(t *testing.T) {
	// Recomputing from stored fields yields the same totals.
	coupon := &models.Coupon{Name: "SAVE15", Amount: 15, Expire: time.Now().Add(time.Hour)}
	subtotal := 33.33

	discount, finalPrice, tax, total := Totals(subtotal, coupon, 8.25)
	assert.Equal(t, Round2(subtotal-discount), finalPrice)
	assert.Equal(t, ComputeTax(finalPrice, 8.25), tax)
	assert.Equal(t, Round2(finalPrice+tax), total)
}

func TestApplyCouponRounds(t *testing.T) {
	coupon := &models.Coupon{Amount: 33}
	assert.Equal(t, 3.33, ApplyCoupon(10.10, coupon))
}

func TestExtraSubtotal(t *testing.T) {
	assert.Equal(t, 4.5, ExtraSubtotal(1.5, 3))
}
