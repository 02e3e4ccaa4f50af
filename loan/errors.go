package loan

import (
	"errors"
	"fmt"

	"inventaris_admin/gateway"
	"inventaris_admin/session"
)

var (
	ErrUnknownLoan        = errors.New("unknown loan")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrGatewayUnavailable = errors.New("gateway unavailable")
	ErrGatewayRejected    = errors.New("gateway rejected request")
)

// MissingFieldError names the first missing or invalid request field.
type MissingFieldError struct {
	Field  string
	Reason string
}

func (e *MissingFieldError) Error() string {
	if e.Reason == "" {
		return "missing field: " + e.Field
	}
	return fmt.Sprintf("missing field: %s (%s)", e.Field, e.Reason)
}

// translate maps a gateway failure onto the loan error set. notFound is what a
// 404 means for the calling operation.
func translate(err error, notFound error) error {
	var kind error
	switch gateway.KindOf(err) {
	case gateway.KindNotFound:
		kind = notFound
	case gateway.KindUnauthorized:
		kind = session.ErrUnauthenticated
	case gateway.KindRejected:
		kind = ErrGatewayRejected
	case gateway.KindUnavailable, gateway.KindDecode:
		kind = ErrGatewayUnavailable
	default:
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
