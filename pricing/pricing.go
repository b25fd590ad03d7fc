// Package pricing computes prices for meal selections, coupons and tax.
// It is pure: catalog records are passed in as snapshots and nothing here
// touches the store, so it is safe to call concurrently.
package pricing

import (
	"github.com/abanoubmamdouhhanna/cfc/apperr"
	"github.com/abanoubmamdouhhanna/cfc/models"
	"github.com/shopspring/decimal"
)

// CatalogMeal is a read-only snapshot of a meal record.
type CatalogMeal struct {
	ID              string
	Title           string
	FinalPrice      float64
	FinalComboPrice float64
	Available       bool
	Deleted         bool
}

// CatalogOption is a read-only snapshot of an addon option. A nil
// *CatalogOption in a selection slice means the option was not found.
type CatalogOption struct {
	ID        string
	Name      string
	Price     float64
	Available bool
}

// Round2 rounds a monetary amount to 2 decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// PriceMealSelection prices one meal selection into an immutable line item.
//
// The addon charging rule is "first N free" per category, where N is the
// meal quantity: entries keep the position the client supplied them in, and
// every entry at index >= quantity is charged the option's listed price.
// Unavailable or unknown options are dropped without charge but still hold
// their position in the list.
func PriceMealSelection(meal CatalogMeal, quantity int, isCombo bool, sauces, drinks, sides []*CatalogOption) (models.PricedLineItem, error) {
	if meal.ID == "" || meal.Deleted {
		return models.PricedLineItem{}, apperr.Newf(apperr.NotFound, "Invalid meal in order: %s", meal.ID)
	}
	if quantity < 1 {
		quantity = 1
	}

	unitPrice := meal.FinalPrice
	if isCombo {
		unitPrice = meal.FinalComboPrice
	}

	base := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))

	extras := decimal.Zero
	charge := func(options []*CatalogOption) []models.OrderAddon {
		var out []models.OrderAddon
		for index, opt := range options {
			if opt == nil || !opt.Available {
				continue
			}
			charged := 0.0
			if index >= quantity {
				charged = opt.Price
				extras = extras.Add(decimal.NewFromFloat(opt.Price))
			}
			out = append(out, models.OrderAddon{
				Option_id: opt.ID,
				Name:      opt.Name,
				Price:     charged,
			})
		}
		return out
	}

	pricedSauces := charge(sauces)
	pricedDrinks := charge(drinks)
	pricedSides := charge(sides)

	total := base.Add(extras).Round(2)

	return models.PricedLineItem{
		Meal_id:    meal.ID,
		Title:      meal.Title,
		Unit_price: unitPrice,
		Quantity:   quantity,
		Is_combo:   isCombo,
		Sauces:     pricedSauces,
		Drinks:     pricedDrinks,
		Sides:      pricedSides,
		Item_total: total.InexactFloat64(),
	}, nil
}

// ApplyCoupon returns the discount for a subtotal at the coupon's
// percentage, rounded to 2 decimals. A nil coupon means no discount.
func ApplyCoupon(subtotal float64, coupon *models.Coupon) float64 {
	if coupon == nil {
		return 0
	}
	return decimal.NewFromFloat(subtotal).
		Mul(decimal.NewFromFloat(coupon.Amount)).
		Div(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}

// ComputeTax returns the tax on an already-discounted amount at the
// location's rate, rounded to 2 decimals.
func ComputeTax(amountAfterDiscount, taxRatePercent float64) float64 {
	return decimal.NewFromFloat(amountAfterDiscount).
		Mul(decimal.NewFromFloat(taxRatePercent)).
		Div(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}

// Totals folds a subtotal, coupon and tax rate into the order's money
// fields, rounding each step independently.
func Totals(subtotal float64, coupon *models.Coupon, taxRatePercent float64) (discount, finalPrice, tax, total float64) {
	discount = ApplyCoupon(subtotal, coupon)
	finalPrice = decimal.NewFromFloat(subtotal).
		Sub(decimal.NewFromFloat(discount)).
		Round(2).
		InexactFloat64()
	tax = ComputeTax(finalPrice, taxRatePercent)
	total = decimal.NewFromFloat(finalPrice).
		Add(decimal.NewFromFloat(tax)).
		Round(2).
		InexactFloat64()
	return
}

// ExtraSubtotal prices a standalone addon purchase.
func ExtraSubtotal(price float64, quantity int) float64 {
	return decimal.NewFromFloat(price).
		Mul(decimal.NewFromInt(int64(quantity))).
		Round(2).
		InexactFloat64()
}
