package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/urbanthreads/storefront-service/internal/logging"
	"github.com/urbanthreads/storefront-service/internal/middleware"
	"github.com/urbanthreads/storefront-service/internal/models"
)

const defaultPageSize = 20

// CreateOrder handles POST /api/orders
func (h *Handlers) CreateOrder(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind request", logging.Fields{"error": err.Error()})
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), principal.UserID, &req)
	middleware.RecordOrderOperation("create", err == nil)
	if err != nil {
		handleError(c, err)
		return
	}

	// The buyer's cart is spent once the order exists.
	if err := h.cartService.ClearCart(c.Request.Context(), principal.UserID); err != nil {
		h.logger.Warn("Failed to clear cart after checkout", logging.Fields{
			"user_id": principal.UserID,
			"error":   err.Error(),
		})
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrder handles GET /api/orders/:id
func (h *Handlers) GetOrder(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	order, err := h.orderService.GetOrder(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// GetMyOrders handles GET /api/orders
func (h *Handlers) GetMyOrders(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	limit, offset := pagination(c)

	orders, total, err := h.orderService.GetUserOrders(c.Request.Context(), principal.UserID, limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
	})
}

// ListOrders handles GET /api/admin/orders
func (h *Handlers) ListOrders(c *gin.Context) {
	limit, offset := pagination(c)
	filter := &models.OrderListFilter{
		UserID: c.Query("user_id"),
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.Query("is_paid"); raw != "" {
		isPaid := raw == "true"
		filter.IsPaid = &isPaid
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
	})
}

// TogglePaid handles PUT /api/admin/orders/:id/pay
func (h *Handlers) TogglePaid(c *gin.Context) {
	order, err := h.orderService.TogglePaid(c.Request.Context(), c.Param("id"))
	middleware.RecordOrderOperation("pay", err == nil)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// ToggleDelivered handles PUT /api/admin/orders/:id/deliver
func (h *Handlers) ToggleDelivered(c *gin.Context) {
	order, err := h.orderService.ToggleDelivered(c.Request.Context(), c.Param("id"))
	middleware.RecordOrderOperation("deliver", err == nil)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = defaultPageSize
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
