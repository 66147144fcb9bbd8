package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zamflow/internal/analytics"
	"zamflow/internal/identity"
	"zamflow/internal/products"
	"zamflow/internal/sales"
	"zamflow/internal/users"
)

var badRequest = []error{
	users.ErrInvalidRole,
	users.ErrInvalidAction,
	products.ErrMissingFields,
	products.ErrInvalidPrice,
	products.ErrNegativeStock,
	products.ErrInvalidQuantity,
	sales.ErrMissingFields,
	sales.ErrInvalidQuantity,
	sales.ErrInvalidRange,
	analytics.ErrInvalidRange,
	identity.ErrMissingFields,
	identity.ErrPasswordMismatch,
	identity.ErrPasswordTooShort,
}

var notFound = []error{
	users.ErrNotFound,
	products.ErrNotFound,
	sales.ErrNotFound,
	sales.ErrProductNotFound,
}

var conflict = []error{
	users.ErrAlreadyExists,
	products.ErrDuplicateSKU,
	products.ErrInsufficientStock,
	identity.ErrEmailInUse,
}

// statusFor maps a service error onto an HTTP status code.
func statusFor(err error) int {
	is := func(list []error) bool {
		for _, target := range list {
			if errors.Is(err, target) {
				return true
			}
		}
		return false
	}
	switch {
	case is(badRequest):
		return http.StatusBadRequest
	case is(notFound):
		return http.StatusNotFound
	case is(conflict):
		return http.StatusConflict
	case errors.Is(err, identity.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// abortError writes err as {"error": ...}. Internal errors are logged and
// hidden from the client.
func abortError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(status, gin.H{"error": "internal error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
