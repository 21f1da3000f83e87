package service

import (
	"github.com/urbanthreads/storefront-service/internal/apperrors"
	"github.com/urbanthreads/storefront-service/internal/models"
)

// ValidateCreateOrderRequest checks the checkout payload before any catalog
// lookup happens. Prices are not validated here because the client does not
// supply them.
func ValidateCreateOrderRequest(req *models.CreateOrderRequest) error {
	if len(req.Items) == 0 {
		return apperrors.NewValidationError("items", "order must contain at least one item")
	}
	for _, item := range req.Items {
		if item.ProductID == "" {
			return apperrors.NewValidationError("items", "item product_id is required")
		}
		if item.Qty <= 0 {
			return apperrors.NewValidationError("items", "item quantity must be positive")
		}
	}
	if !models.IsValidPaymentMethod(req.PaymentMethod) {
		return apperrors.NewValidationError("payment_method", "unknown payment method")
	}
	return validateShippingAddress(&req.ShippingAddress)
}

func validateShippingAddress(addr *models.ShippingAddress) error {
	switch {
	case addr.FullName == "":
		return apperrors.NewValidationError("shipping_address.full_name", "full name is required")
	case addr.Address == "":
		return apperrors.NewValidationError("shipping_address.address", "address is required")
	case addr.City == "":
		return apperrors.NewValidationError("shipping_address.city", "city is required")
	case addr.PostalCode == "":
		return apperrors.NewValidationError("shipping_address.postal_code", "postal code is required")
	case addr.Country == "":
		return apperrors.NewValidationError("shipping_address.country", "country is required")
	case addr.PhoneNumber == "":
		return apperrors.NewValidationError("shipping_address.phone_number", "phone number is required")
	}
	return nil
}

// ValidateBankTransferRequest requires every evidence field to be present.
func ValidateBankTransferRequest(req *models.BankTransferRequest) error {
	switch {
	case req.BankName == "":
		return apperrors.NewValidationError("bank_name", "bank name is required")
	case req.AccountNumber == "":
		return apperrors.NewValidationError("account_number", "account number is required")
	case req.AccountName == "":
		return apperrors.NewValidationError("account_name", "account name is required")
	case req.PaymentScreenshotURL == "":
		return apperrors.NewValidationError("payment_screenshot_url", "payment screenshot is required")
	}
	return nil
}

// ValidateReviewRating bounds the rating to the 1..5 scale.
func ValidateReviewRating(rating float64) error {
	if rating < 1 || rating > 5 {
		return apperrors.NewValidationError("rating", "rating must be between 1 and 5")
	}
	return nil
}
