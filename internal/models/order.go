package models

import "time"

// Payment methods offered at checkout. Stored verbatim on the order.
const (
	PaymentMethodPayPal         = "PayPal"
	PaymentMethodStripe         = "Stripe"
	PaymentMethodCashOnDelivery = "Cash On Delivery"
	PaymentMethodBankTransfer   = "Bank Transfer"
)

// PaymentMethods lists every accepted payment method.
var PaymentMethods = []string{
	PaymentMethodPayPal,
	PaymentMethodStripe,
	PaymentMethodCashOnDelivery,
	PaymentMethodBankTransfer,
}

// IsValidPaymentMethod reports whether method is one of the accepted values.
func IsValidPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// OrderItem is one product-variant-quantity line within a cart or order.
// The unit price is captured from the catalog at order creation and is
// immutable afterwards.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	Qty       int     `json:"qty"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Color     string  `json:"color"`
	Size      string  `json:"size"`
}

// ShippingAddress is the structured delivery address on an order.
type ShippingAddress struct {
	FullName    string `json:"full_name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`
	PhoneNumber string `json:"phone_number"`
	Description string `json:"description,omitempty"`
}

// PaymentResult records the provider-side outcome of a captured payment.
type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	EmailAddress string `json:"email_address"`
}

// BankTransferDetails is the buyer-supplied evidence for an offline bank
// transfer. Only meaningful when the order's payment method is Bank Transfer.
type BankTransferDetails struct {
	BankName          string `json:"bank_name"`
	AccountNumber     string `json:"account_number"`
	AccountName       string `json:"account_name"`
	PaymentScreenshot string `json:"payment_screenshot"`
}

// Order is the aggregate root for a checkout transaction. Monetary fields are
// derived server-side from catalog prices and never trusted from the client.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentResult   *PaymentResult  `json:"payment_result,omitempty"`

	ItemsPrice    float64 `json:"items_price"`
	ShippingPrice float64 `json:"shipping_price"`
	TaxPrice      float64 `json:"tax_price"`
	TotalPrice    float64 `json:"total_price"`

	IsPaid      bool       `json:"is_paid"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	IsDelivered bool       `json:"is_delivered"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	BankTransferDetails     *BankTransferDetails `json:"bank_transfer_details,omitempty"`
	IsBankTransferSubmitted bool                 `json:"is_bank_transfer_submitted"`
	IsBankTransferApproved  bool                 `json:"is_bank_transfer_approved"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateOrderItem is one candidate line in a checkout payload. Any price the
// client sends is ignored; the catalog price is looked up by ProductID.
type CreateOrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Qty       int    `json:"qty"`
	Image     string `json:"image"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

// CreateOrderRequest is the checkout payload submitted by a buyer.
type CreateOrderRequest struct {
	Items           []CreateOrderItem `json:"items"`
	ShippingAddress ShippingAddress   `json:"shipping_address"`
	PaymentMethod   string            `json:"payment_method"`
}

// BankTransferRequest carries the buyer's transfer evidence. All fields are
// required.
type BankTransferRequest struct {
	BankName             string `json:"bank_name"`
	AccountNumber        string `json:"account_number"`
	AccountName          string `json:"account_name"`
	PaymentScreenshotURL string `json:"payment_screenshot_url"`
}

// OrderListFilter selects orders for the admin listing.
type OrderListFilter struct {
	UserID string
	IsPaid *bool
	Limit  int
	Offset int
}
