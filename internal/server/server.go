package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/urbanthreads/storefront-service/internal/config"
	"github.com/urbanthreads/storefront-service/internal/handlers"
	"github.com/urbanthreads/storefront-service/internal/middleware"
)

// Server wires the HTTP routes onto a gin engine.
type Server struct {
	config   *config.Config
	router   *gin.Engine
	handlers *handlers.Handlers
	httpSrv  *http.Server
}

// New builds the server and registers all routes.
func New(h *handlers.Handlers, cfg *config.Config) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())

	s := &Server{
		config:   cfg,
		router:   router,
		handlers: h,
	}

	s.setupRoutes()

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.Health)
	s.router.GET("/ready", s.handlers.Ready)
	s.router.GET("/live", s.handlers.Live)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Catalog reads are public.
	s.router.GET("/api/products", s.handlers.ListProducts)
	s.router.GET("/api/products/:slug", s.handlers.GetProduct)
	s.router.GET("/api/products/:slug/related", s.handlers.GetRelatedProducts)
	s.router.GET("/api/products/:slug/reviews", s.handlers.ListProductReviews)
	s.router.GET("/api/categories", s.handlers.ListCategories)

	api := s.router.Group("/api")
	api.Use(middleware.Auth(s.config.Auth.JWTSecret))
	{
		api.GET("/cart", s.handlers.GetCart)
		api.DELETE("/cart", s.handlers.ClearCart)
		api.POST("/cart/items", s.handlers.AddCartItem)
		api.POST("/cart/items/remove", s.handlers.RemoveCartItem)
		api.PUT("/cart/shipping-address", s.handlers.SaveShippingAddress)
		api.PUT("/cart/payment-method", s.handlers.SavePaymentMethod)

		api.POST("/orders", s.handlers.CreateOrder)
		api.GET("/orders", s.handlers.GetMyOrders)
		api.GET("/orders/:id", s.handlers.GetOrder)

		api.POST("/orders/:id/create-paypal-order", s.handlers.CreatePayPalOrder)
		api.POST("/orders/:id/capture-paypal-order", s.handlers.CapturePayPalOrder)
		api.POST("/orders/:id/bank-transfer", s.handlers.SubmitBankTransfer)

		api.POST("/products/:slug/reviews", s.handlers.SubmitReview)
		api.GET("/reviews", s.handlers.ListMyReviews)
		api.PUT("/reviews/:id", s.handlers.UpdateReview)
		api.DELETE("/reviews/:id", s.handlers.DeleteReview)
	}

	admin := s.router.Group("/api/admin")
	admin.Use(middleware.Auth(s.config.Auth.JWTSecret), middleware.RequireAdmin())
	{
		admin.GET("/orders", s.handlers.ListOrders)
		admin.PUT("/orders/:id/pay", s.handlers.TogglePaid)
		admin.PUT("/orders/:id/deliver", s.handlers.ToggleDelivered)
		admin.PUT("/orders/:id/approve-bank-transfer", s.handlers.ApproveBankTransfer)

		admin.POST("/products", s.handlers.CreateProduct)
		admin.PUT("/products/:id", s.handlers.UpdateProduct)
		admin.DELETE("/products/:id", s.handlers.DeleteProduct)
	}
}

// Start begins serving. Blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	return s.httpSrv.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
