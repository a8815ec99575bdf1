package handlers

import (
	"errors"
	"log"
	"net/http"

	"quizknow/internal/models"

	"github.com/gin-gonic/gin"
)

// respondError maps domain errors onto HTTP statuses. Anything that is not a
// domain error is a storage failure and must not leak details to the caller.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotOwner), errors.Is(err, models.ErrNotAssigned):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrAlreadySubmitted),
		errors.Is(err, models.ErrInvalidState),
		errors.Is(err, models.ErrSessionExpired):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func userID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}

func userRole(c *gin.Context) string {
	return c.GetHeader("X-User-Role")
}
