package payment

import (
	"context"
	"time"

	"staybook/internal/domain"
)

type paymentStore interface {
	Create(ctx context.Context, p *domain.PaymentRecord) error
	GetByTransactionID(ctx context.Context, txnID string) (*domain.PaymentRecord, error)
	MarkCompletedIdempotent(ctx context.Context, txnID, rawPayload string, paidAt time.Time) (bool, *domain.PaymentRecord, error)
	MarkFailed(ctx context.Context, txnID, rawPayload string) error
	MarkRefunded(ctx context.Context, txnID, rawPayload string) error
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.PaymentRecord, error)
}

type bookingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ConfirmIfPending(ctx context.Context, bookingID int64) error
}

// EventSink receives reconciliation events for the admin feed. Nil-safe:
// the service works without one.
type EventSink interface {
	BookingConfirmed(bookingID, propertyID int64)
	PaymentStatus(bookingID int64, provider domain.PaymentProvider, status domain.PaymentRecordStatus)
}
