package service

import (
	"context"

	"github.com/urbanthreads/storefront-service/internal/apperrors"
	"github.com/urbanthreads/storefront-service/internal/logging"
	"github.com/urbanthreads/storefront-service/internal/models"
	"github.com/urbanthreads/storefront-service/internal/pricing"
)

// CartService manages the per-user cart. Every mutation recomputes the
// cart's totals with the same rules used at checkout, so the cart always
// shows the price the buyer would actually be charged.
type CartService struct {
	cartStore   CartStore
	productRepo ProductRepository
	logger      *logging.Logger
}

// NewCartService creates a new cart service.
func NewCartService(cartStore CartStore, productRepo ProductRepository) *CartService {
	return &CartService{
		cartStore:   cartStore,
		productRepo: productRepo,
		logger:      logging.New("cart-service"),
	}
}

// GetCart returns the user's cart, empty if none exists yet.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	return s.cartStore.Get(ctx, userID)
}

// AddItem adds one unit of the requested variant, creating the line if it is
// new. The unit price is read from the catalog at add time.
func (s *CartService) AddItem(ctx context.Context, userID string, req *models.CartItemRequest) (*models.Cart, error) {
	cart, err := s.cartStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if idx := findLine(cart, req); idx >= 0 {
		cart.Items[idx].Qty++
		return s.saveCart(ctx, userID, cart)
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	cart.Items = append(cart.Items, models.OrderItem{
		ProductID: product.ID,
		Name:      req.Name,
		Slug:      req.Slug,
		Qty:       1,
		Image:     req.Image,
		Price:     product.Price,
		Color:     req.Color,
		Size:      req.Size,
	})
	return s.saveCart(ctx, userID, cart)
}

// RemoveItem takes one unit off the matching line, dropping the line when it
// reaches zero.
func (s *CartService) RemoveItem(ctx context.Context, userID string, req *models.CartItemRequest) (*models.Cart, error) {
	cart, err := s.cartStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := findLine(cart, req)
	if idx < 0 {
		return nil, apperrors.ErrNotFound
	}

	if cart.Items[idx].Qty <= 1 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Qty--
	}
	return s.saveCart(ctx, userID, cart)
}

// SaveShippingAddress stores the address the next order will use.
func (s *CartService) SaveShippingAddress(ctx context.Context, userID string, addr *models.ShippingAddress) (*models.Cart, error) {
	if err := validateShippingAddress(addr); err != nil {
		return nil, err
	}

	cart, err := s.cartStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.ShippingAddress = *addr
	return s.saveCart(ctx, userID, cart)
}

// SavePaymentMethod stores the payment method the next order will use.
func (s *CartService) SavePaymentMethod(ctx context.Context, userID, method string) (*models.Cart, error) {
	if !models.IsValidPaymentMethod(method) {
		return nil, apperrors.NewValidationError("payment_method", "unknown payment method")
	}

	cart, err := s.cartStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.PaymentMethod = method
	return s.saveCart(ctx, userID, cart)
}

// ClearCart drops the user's cart entirely. Called after a successful
// checkout.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	return s.cartStore.Clear(ctx, userID)
}

func (s *CartService) saveCart(ctx context.Context, userID string, cart *models.Cart) (*models.Cart, error) {
	totals := pricing.Calculate(cart.Items)
	cart.ItemsPrice = totals.ItemsPrice
	cart.ShippingPrice = totals.ShippingPrice
	cart.TaxPrice = totals.TaxPrice
	cart.TotalPrice = totals.TotalPrice

	if err := s.cartStore.Save(ctx, userID, cart); err != nil {
		s.logger.Error("Failed to save cart", logging.Fields{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}
	return cart, nil
}

// Cart lines are identified by variant, not product id: the same product in
// a different color or size is a separate line.
func findLine(cart *models.Cart, req *models.CartItemRequest) int {
	for i, item := range cart.Items {
		if item.Slug == req.Slug && item.Color == req.Color && item.Size == req.Size {
			return i
		}
	}
	return -1
}
