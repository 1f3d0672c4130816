// Package httperr maps domain errors onto HTTP responses.
package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"biblioteca/internal/validate"
	"biblioteca/pkg/apperr"
)

// JSON writes the error with the status its kind demands: validation
// failures are 400 and carry the per-field issues, missing entities are 404,
// domain conflicts are 409, everything else is a 500.
func JSON(c *gin.Context, err error) {
	var vErr *validate.Error
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  vErr.Error(),
			"issues": vErr.Issues,
		})
		return
	}
	if apperr.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if apperr.IsConflict(err) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
