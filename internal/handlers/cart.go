package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urbanthreads/storefront-service/internal/middleware"
	"github.com/urbanthreads/storefront-service/internal/models"
)

// GetCart handles GET /api/cart
func (h *Handlers) GetCart(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	cart, err := h.cartService.GetCart(c.Request.Context(), principal.UserID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

// AddCartItem handles POST /api/cart/items
func (h *Handlers) AddCartItem(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	var req models.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" || req.Slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), principal.UserID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

// RemoveCartItem handles POST /api/cart/items/remove
func (h *Handlers) RemoveCartItem(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	var req models.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), principal.UserID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

// SaveShippingAddress handles PUT /api/cart/shipping-address
func (h *Handlers) SaveShippingAddress(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	var req models.ShippingAddress
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cart, err := h.cartService.SaveShippingAddress(c.Request.Context(), principal.UserID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

// SavePaymentMethod handles PUT /api/cart/payment-method
func (h *Handlers) SavePaymentMethod(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	var req struct {
		PaymentMethod string `json:"payment_method"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cart, err := h.cartService.SavePaymentMethod(c.Request.Context(), principal.UserID, req.PaymentMethod)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

// ClearCart handles DELETE /api/cart
func (h *Handlers) ClearCart(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	if err := h.cartService.ClearCart(c.Request.Context(), principal.UserID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
