package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used inside the core. These are internal signals;
// anything crossing the invocation boundary is wrapped in a Fault.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the provider rejected the presented
	// access token. It is the trigger for the refresh-retry cycle.
	ErrUnauthorized = errors.New("provider rejected access token")
)

// FaultKind classifies a failure so callers can decide between
// prompting reconnection, retrying, or surfacing the message as-is.
type FaultKind string

const (
	// FaultConfiguration means deployment client credentials are missing.
	// Fatal and operator-facing, never shown to end users as actionable.
	FaultConfiguration FaultKind = "configuration"
	// FaultNotConnected means no usable credential exists for the
	// (user, service) pair. The user should connect the integration.
	FaultNotConnected FaultKind = "not_connected"
	// FaultAuthorizationDenied means the provider rejected the
	// authorization-code exchange. Carries the provider's description.
	FaultAuthorizationDenied FaultKind = "authorization_denied"
	// FaultReauthorizationRequired means a refresh was attempted and
	// failed, or no refresh token was available. The user must reconnect.
	FaultReauthorizationRequired FaultKind = "reauthorization_required"
	// FaultTransient means a network-level failure talking to the
	// provider. Safe for the caller to retry.
	FaultTransient FaultKind = "transient"
	// FaultProviderRejected means the real operation failed for a reason
	// unrelated to authorization (bad recipient, quota, validation).
	FaultProviderRejected FaultKind = "provider_rejected"
)

// Fault is a structured failure returned across the invocation boundary.
// It never contains token material in Message.
type Fault struct {
	Kind    FaultKind
	Message string
	Err     error
}

// NewFault creates a fault with an optional wrapped cause.
func NewFault(kind FaultKind, message string, err error) *Fault {
	return &Fault{Kind: kind, Message: message, Err: err}
}

// Faultf creates a fault with a formatted message.
func Faultf(kind FaultKind, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (f *Fault) Error() string {
	if f.Message == "" {
		return string(f.Kind)
	}
	return string(f.Kind) + ": " + f.Message
}

// Unwrap exposes the cause for errors.Is / errors.As.
func (f *Fault) Unwrap() error {
	return f.Err
}

// KindOf returns the fault kind of err, or FaultProviderRejected when the
// error is not a Fault (an unclassified failure is treated as the
// provider's problem, with its message passed through).
func KindOf(err error) FaultKind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return FaultProviderRejected
}

// IsKind reports whether err is a Fault of the given kind.
func IsKind(err error, kind FaultKind) bool {
	var f *Fault
	return errors.As(err, &f) && f.Kind == kind
}
