package models

// Cart is the per-user pre-order state: candidate line items plus the saved
// shipping address and payment method. Totals mirror the order pricing rules
// and are recomputed on every mutation. A cart with no items is valid and has
// all-zero totals.
type Cart struct {
	Items           []OrderItem     `json:"items"`
	ItemsPrice      float64         `json:"items_price"`
	ShippingPrice   float64         `json:"shipping_price"`
	TaxPrice        float64         `json:"tax_price"`
	TotalPrice      float64         `json:"total_price"`
	PaymentMethod   string          `json:"payment_method"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
}

// NewCart returns an empty cart with the default payment method.
func NewCart() *Cart {
	return &Cart{
		Items:         []OrderItem{},
		PaymentMethod: PaymentMethodPayPal,
	}
}

// CartItemRequest identifies a cart line and its display fields. Lines are
// keyed by (slug, color, size).
type CartItemRequest struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Image     string `json:"image"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}
