package payment

import "errors"

var (
	// ErrProviderNotConfigured maps to 503: the deployment has no credentials
	// for the requested provider.
	ErrProviderNotConfigured = errors.New("payment provider is not configured")
	// ErrProviderUnavailable maps to 503: the provider could not be reached.
	// No local state changes; the caller may retry.
	ErrProviderUnavailable = errors.New("payment provider is unavailable")
	// ErrBadSignature: webhook authenticity check failed. Logged, never
	// retried, no state change.
	ErrBadSignature = errors.New("invalid webhook signature")
	// ErrUnknownTransaction: an inbound event references a transaction id
	// with no local payment record. The event is dropped.
	ErrUnknownTransaction = errors.New("unknown provider transaction")
	// ErrBookingNotFound: the booking is missing or not owned by the caller.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrForbidden: caller is neither the booking owner nor an admin.
	ErrForbidden = errors.New("access denied")
	// ErrNotRefundable: refund requested for a payment that never completed.
	ErrNotRefundable = errors.New("payment is not refundable")
	// ErrValidation: malformed request.
	ErrValidation = errors.New("validation error")
)
