package orderapi

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrCircuitOpen  = errors.New("order api temporarily unavailable")
	ErrQRRequired   = errors.New("qr code is required")
	ErrNoOrderItems = errors.New("order must contain at least one item")
	ErrNoTable      = errors.New("table id missing in order request")
)

// APIError is a non-2xx response. Message is the response body text, or the
// status line when the body is empty.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("order api: %s", e.Message)
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == status
	}
	return false
}
