package email

import (
	"errors"
	"fmt"
)

// ErrDisabled is returned by every send while delivery is switched off.
var ErrDisabled = errors.New("email: delivery disabled")

// InvalidMessageError means the message could never be delivered as built.
type InvalidMessageError struct{ Reason string }

func (e *InvalidMessageError) Error() string { return "email: invalid message: " + e.Reason }

func invalid(reason string) error { return &InvalidMessageError{Reason: reason} }

// DeliveryError wraps a failure talking to the SMTP relay.
type DeliveryError struct {
	Host string
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("email: deliver via %s: %v", e.Host, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
