package handlers

import (
	"github.com/urbanthreads/storefront-service/internal/config"
	"github.com/urbanthreads/storefront-service/internal/logging"
	"github.com/urbanthreads/storefront-service/internal/service"
)

// Handlers holds all HTTP handlers for the storefront service.
type Handlers struct {
	orderService   *service.OrderService
	paymentService *service.PaymentService
	productService *service.ProductService
	reviewService  *service.ReviewService
	cartService    *service.CartService
	config         *config.Config
	logger         *logging.Logger
}

// NewHandlers creates a new handlers instance.
func NewHandlers(
	orderService *service.OrderService,
	paymentService *service.PaymentService,
	productService *service.ProductService,
	reviewService *service.ReviewService,
	cartService *service.CartService,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		orderService:   orderService,
		paymentService: paymentService,
		productService: productService,
		reviewService:  reviewService,
		cartService:    cartService,
		config:         cfg,
		logger:         logging.New("handlers"),
	}
}
