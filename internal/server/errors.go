package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/brewhaus/internal/auth/domain"
	"github.com/smallbiznis/brewhaus/internal/auth/token"
	catalogdomain "github.com/smallbiznis/brewhaus/internal/catalog/domain"
	feedbackdomain "github.com/smallbiznis/brewhaus/internal/feedback/domain"
	invdomain "github.com/smallbiznis/brewhaus/internal/inventory/domain"
	loyaltydomain "github.com/smallbiznis/brewhaus/internal/loyalty/domain"
	orderdomain "github.com/smallbiznis/brewhaus/internal/order/domain"
	profiledomain "github.com/smallbiznis/brewhaus/internal/profile/domain"
	"gorm.io/gorm"
)

type errorResponse struct {
	Error string `json:"error"`
}

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrTooManyRequests = errors.New("too_many_requests")
)

// ErrorHandlingMiddleware renders the last unwritten handler error as the
// single-field error envelope.
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

		status, message := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: message})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, "internal server error"
	}

	var unknownProduct *orderdomain.UnknownProductError
	if errors.As(err, &unknownProduct) {
		return http.StatusBadRequest, unknownProduct.Error()
	}
	var insufficient *orderdomain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return http.StatusBadRequest, insufficient.Error()
	}
	var invalidTransition *orderdomain.InvalidTransitionError
	if errors.As(err, &invalidTransition) {
		return http.StatusConflict, invalidTransition.Error()
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, token.ErrInvalidToken),
		errors.Is(err, authdomain.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()

	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, err.Error()

	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, err.Error()

	case errors.Is(err, authdomain.ErrEmailTaken):
		return http.StatusConflict, err.Error()

	case errors.Is(err, catalogdomain.ErrNotFound),
		errors.Is(err, invdomain.ErrNotFound),
		errors.Is(err, orderdomain.ErrNotFound),
		errors.Is(err, loyaltydomain.ErrNotFound),
		errors.Is(err, profiledomain.ErrNotFound),
		errors.Is(err, feedbackdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "not_found"

	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, authdomain.ErrInvalidEmail),
		errors.Is(err, authdomain.ErrWeakPassword),
		errors.Is(err, catalogdomain.ErrInvalidName),
		errors.Is(err, catalogdomain.ErrInvalidPrice),
		errors.Is(err, catalogdomain.ErrInvalidID),
		errors.Is(err, catalogdomain.ErrNothingToSet),
		errors.Is(err, invdomain.ErrInvalidName),
		errors.Is(err, invdomain.ErrInvalidUnit),
		errors.Is(err, invdomain.ErrInvalidID),
		errors.Is(err, invdomain.ErrInvalidMove),
		errors.Is(err, invdomain.ErrInvalidRecipe),
		errors.Is(err, invdomain.ErrNothingToSet),
		errors.Is(err, invdomain.ErrNegativeQuantity),
		errors.Is(err, orderdomain.ErrEmptyItems),
		errors.Is(err, orderdomain.ErrInvalidQty),
		errors.Is(err, orderdomain.ErrInvalidID),
		errors.Is(err, orderdomain.ErrInvalidStatus),
		errors.Is(err, loyaltydomain.ErrInvalidID),
		errors.Is(err, loyaltydomain.ErrInvalidPoints),
		errors.Is(err, profiledomain.ErrInvalidID),
		errors.Is(err, profiledomain.ErrInvalidRole),
		errors.Is(err, feedbackdomain.ErrInvalidRating),
		errors.Is(err, feedbackdomain.ErrContentMissing),
		errors.Is(err, feedbackdomain.ErrInvalidID):
		return http.StatusBadRequest, err.Error()
	}

	return http.StatusInternalServerError, "internal server error"
}
