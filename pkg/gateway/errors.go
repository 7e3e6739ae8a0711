package gateway

import (
	"errors"
	"net/http"

	"github.com/tinyland-inc/replybridge/pkg/channels"
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// statusFor maps an error to the HTTP status returned to the caller.
func statusFor(err error) int {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, channels.ErrNotAllowed), errors.Is(err, errBadSignature):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

var errBadSignature = errors.New("invalid webhook signature")
