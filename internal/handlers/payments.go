package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urbanthreads/storefront-service/internal/middleware"
	"github.com/urbanthreads/storefront-service/internal/models"
)

// CreatePayPalOrder handles POST /api/orders/:id/create-paypal-order
func (h *Handlers) CreatePayPalOrder(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	providerID, err := h.paymentService.CreatePayPalOrder(c.Request.Context(), principal, c.Param("id"))
	middleware.RecordOrderOperation("paypal_create", err == nil)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": providerID})
}

// CapturePayPalOrder handles POST /api/orders/:id/capture-paypal-order
func (h *Handlers) CapturePayPalOrder(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	var req struct {
		ProviderOrderID string `json:"order_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ProviderOrderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := h.paymentService.CapturePayPalOrder(c.Request.Context(), principal, c.Param("id"), req.ProviderOrderID)
	middleware.RecordOrderOperation("paypal_capture", err == nil)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// SubmitBankTransfer handles POST /api/orders/:id/bank-transfer
func (h *Handlers) SubmitBankTransfer(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	var req models.BankTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := h.paymentService.SubmitBankTransfer(c.Request.Context(), principal, c.Param("id"), &req)
	middleware.RecordOrderOperation("bank_transfer_submit", err == nil)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// ApproveBankTransfer handles PUT /api/admin/orders/:id/approve-bank-transfer
func (h *Handlers) ApproveBankTransfer(c *gin.Context) {
	order, err := h.paymentService.ApproveBankTransfer(c.Request.Context(), c.Param("id"))
	middleware.RecordOrderOperation("bank_transfer_approve", err == nil)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}
