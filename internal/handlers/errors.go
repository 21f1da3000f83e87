package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urbanthreads/storefront-service/internal/apperrors"
)

func handleError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Message,
			"field": validationErr.Field,
		})
		return
	}

	var unauthorizedErr *apperrors.UnauthorizedError
	if errors.As(err, &unauthorizedErr) {
		c.JSON(http.StatusForbidden, gin.H{"error": unauthorizedErr.Message})
		return
	}

	var conflictErr *apperrors.ConflictError
	if errors.As(err, &conflictErr) {
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Message})
		return
	}

	var preconditionErr *apperrors.PreconditionError
	if errors.As(err, &preconditionErr) {
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": preconditionErr.Message})
		return
	}

	var externalErr *apperrors.ExternalError
	if errors.As(err, &externalErr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": externalErr.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
