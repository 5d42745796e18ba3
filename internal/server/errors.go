package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	assetdomain "github.com/meshmart/meshmart/internal/asset/domain"
	orderdomain "github.com/meshmart/meshmart/internal/order/domain"
	paymentdomain "github.com/meshmart/meshmart/internal/payment/domain"
	purchasedomain "github.com/meshmart/meshmart/internal/purchase/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, paymentdomain.ErrInvalidSignature):
		// Distinct from generic validation: this is a trust failure.
		return http.StatusUnauthorized, errorPayload{
			Type:    "invalid_signature",
			Message: "signature verification failed",
		}
	case errors.Is(err, orderdomain.ErrNotPending):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "order is not pending",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, paymentdomain.ErrGatewayUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "gateway_unavailable",
			Message: "payment gateway unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, orderdomain.ErrEmptyCart),
		errors.Is(err, orderdomain.ErrInvalidID),
		errors.Is(err, orderdomain.ErrAmountInvalid),
		errors.Is(err, assetdomain.ErrInvalidTitle),
		errors.Is(err, assetdomain.ErrInvalidPrice),
		errors.Is(err, assetdomain.ErrInvalidID),
		errors.Is(err, purchasedomain.ErrInvalidGrant),
		errors.Is(err, paymentdomain.ErrInvalidNotification):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, assetdomain.ErrNotFound),
		errors.Is(err, orderdomain.ErrNotFound),
		errors.Is(err, orderdomain.ErrNotOwned),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
