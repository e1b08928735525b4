package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pulse/database"
	"pulse/logger"
)

// respondError maps the store's error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is an operational failure and is not
// leaked to the client.
func respondError(c *gin.Context, err error) {
	var validationErr *database.ValidationError
	var notFoundErr *database.NotFoundError
	var conflictErr *database.ConflictError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Error(),
			"field": validationErr.Field,
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Error()})
	default:
		l := logger.With("handlers")
		l.Error().Err(err).
			Str("path", c.Request.URL.Path).
			Msg("Operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
