// Package pricing derives the monetary totals for carts and orders. The same
// calculation runs for cart previews and for the persisted order, so the two
// can never disagree.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/urbanthreads/storefront-service/internal/models"
)

// Pricing policy constants. Fixed per deployment, never per order.
const (
	// FreeShippingThreshold is the items subtotal at which shipping becomes
	// free. A subtotal of exactly 100 ships free; 99.99 pays the flat fee.
	FreeShippingThreshold = 100.0

	// FlatShippingFee applies when the subtotal is below the threshold.
	FlatShippingFee = 10.0

	// TaxRate is the flat tax applied to the items subtotal.
	TaxRate = 0.15
)

// Totals is the derived monetary breakdown, each amount rounded to two
// decimal places.
type Totals struct {
	ItemsPrice    float64 `json:"items_price"`
	ShippingPrice float64 `json:"shipping_price"`
	TaxPrice      float64 `json:"tax_price"`
	TotalPrice    float64 `json:"total_price"`
}

// Round2 rounds a currency amount to two decimal places, half away from zero.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Calculate derives the four totals from the given line items. It is a pure
// function: no side effects, identical output for identical input. An empty
// item list yields all-zero totals; order creation rejects empty item lists
// before calling this.
func Calculate(items []models.OrderItem) Totals {
	if len(items) == 0 {
		return Totals{}
	}

	itemsPrice := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Qty)))
		itemsPrice = itemsPrice.Add(line)
	}
	itemsPrice = itemsPrice.Round(2)

	shippingPrice := decimal.NewFromFloat(FlatShippingFee)
	if itemsPrice.GreaterThanOrEqual(decimal.NewFromFloat(FreeShippingThreshold)) {
		shippingPrice = decimal.Zero
	}

	taxPrice := itemsPrice.Mul(decimal.NewFromFloat(TaxRate)).Round(2)
	totalPrice := itemsPrice.Add(shippingPrice).Add(taxPrice).Round(2)

	return Totals{
		ItemsPrice:    toFloat(itemsPrice),
		ShippingPrice: toFloat(shippingPrice),
		TaxPrice:      toFloat(taxPrice),
		TotalPrice:    toFloat(totalPrice),
	}
}

// Apply copies the totals onto an order.
func (t Totals) Apply(order *models.Order) {
	order.ItemsPrice = t.ItemsPrice
	order.ShippingPrice = t.ShippingPrice
	order.TaxPrice = t.TaxPrice
	order.TotalPrice = t.TotalPrice
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
