package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/Anas-Ty/restaurant-mvp/internal/orderapi"
	"github.com/gin-gonic/gin"
)

// UpstreamStatus maps an order API error to the status the storefront answers with.
func UpstreamStatus(err error) int {
	var apiErr *orderapi.APIError

	switch {
	case errors.Is(err, orderapi.ErrCircuitOpen):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr):
		if apiErr.Status == http.StatusNotFound {
			return http.StatusNotFound
		}
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}

// Message returns the text shown to the customer: the server's own
// message for API errors, the error text otherwise.
func Message(err error) string {
	var apiErr *orderapi.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func Error(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": Message(err)})
}

func Upstream(c *gin.Context, err error) {
	Error(c, UpstreamStatus(err), err)
}
