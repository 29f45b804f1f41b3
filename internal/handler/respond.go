package handler

import (
	"errors"
	"net/http"

	"carelog/internal/service"

	"github.com/gin-gonic/gin"
)

// fail maps service errors onto HTTP statuses.
func fail(c *gin.Context, err error) {
	switch {
	case service.IsValidation(err) || errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrLoginFailed), errors.Is(err, service.ErrInactiveStaff):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
