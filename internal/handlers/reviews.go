package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urbanthreads/storefront-service/internal/middleware"
	"github.com/urbanthreads/storefront-service/internal/models"
)

// ListProductReviews handles GET /api/products/:slug/reviews
func (h *Handlers) ListProductReviews(c *gin.Context) {
	reviews, err := h.reviewService.ListProductReviews(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// SubmitReview handles POST /api/products/:slug/reviews
func (h *Handlers) SubmitReview(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	var req models.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	review, err := h.reviewService.SubmitReview(c.Request.Context(), principal, c.Param("slug"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// UpdateReview handles PUT /api/reviews/:id
func (h *Handlers) UpdateReview(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	var req models.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), principal, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// DeleteReview handles DELETE /api/reviews/:id
func (h *Handlers) DeleteReview(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	if err := h.reviewService.DeleteReview(c.Request.Context(), principal, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ListMyReviews handles GET /api/reviews
func (h *Handlers) ListMyReviews(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	reviews, err := h.reviewService.ListUserReviews(c.Request.Context(), principal.UserID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}
