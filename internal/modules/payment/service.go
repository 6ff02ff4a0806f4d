package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"staybook/internal/domain"
)

// Service drives every payment record through
// pending -> completed | failed and completed -> refunded, and keeps the
// owning booking consistent with it. Booking.Status is a projection: it is
// only confirmed after the payment write succeeded, and the confirmation is
// re-applied from payment state wherever the two could have diverged.
type Service struct {
	registry *Registry
	payments paymentStore
	bookings bookingStore
	events   EventSink
	loggerf  func(format string, args ...interface{})
}

func NewService(registry *Registry, payments paymentStore, bookings bookingStore, events EventSink, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		registry: registry,
		payments: payments,
		bookings: bookings,
		events:   events,
		loggerf:  loggerf,
	}
}

// Initiate runs the outbound create-payment step: provider call first, then
// the local record. The record is committed before the transaction id is
// returned to the caller, so no provider event can ever race a record that
// does not exist yet. If the local insert fails after the provider call, the
// remote transaction is orphaned on the provider side but harmless here: no
// booking was marked paid, and the id is logged for manual reconciliation.
func (s *Service) Initiate(ctx context.Context, callerID int64, provider domain.PaymentProvider, req CreateRequest) (*CreateResult, error) {
	p, ok := s.registry.Get(provider)
	if !ok {
		return nil, ErrProviderNotConfigured
	}
	if req.BookingID == 0 || req.Amount <= 0 {
		return nil, ErrValidation
	}

	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.ClientID == nil || *b.ClientID != callerID {
		return nil, ErrBookingNotFound
	}

	req.ClientID = callerID
	res, err := p.CreatePayment(ctx, req)
	if err != nil {
		return nil, err
	}

	rec := &domain.PaymentRecord{
		BookingID:     req.BookingID,
		Amount:        req.Amount,
		Currency:      strings.ToUpper(req.Currency),
		Provider:      provider,
		TransactionID: res.TransactionID,
		Status:        domain.PaymentPending,
		RawPayload:    string(res.Raw),
	}
	if err := s.payments.Create(ctx, rec); err != nil {
		s.loggerf("level=error msg=payment record insert failed after provider create provider=%s txn_id=%s booking_id=%d err=%v",
			provider, res.TransactionID, req.BookingID, err)
		return nil, fmt.Errorf("save payment record: %w", err)
	}

	if s.events != nil {
		s.events.PaymentStatus(req.BookingID, provider, domain.PaymentPending)
	}
	return res, nil
}

// ApplySuccess records a verified provider success for txnID. Duplicate
// deliveries are no-ops; an unknown transaction id is dropped with
// ErrUnknownTransaction and never creates a record; a success redelivered
// after the record reached a terminal failed or refunded state is logged and
// dropped without touching the record or the booking. The booking
// confirmation runs after the payment write on every completed delivery, so a
// confirmation lost to an earlier partial failure is re-derived on the next
// one.
func (s *Service) ApplySuccess(ctx context.Context, txnID, rawPayload string) (*domain.PaymentRecord, error) {
	changed, rec, err := s.payments.MarkCompletedIdempotent(ctx, txnID, rawPayload, time.Now().UTC())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.loggerf("level=warn msg=unknown transaction dropped txn_id=%s", txnID)
			return nil, ErrUnknownTransaction
		}
		return nil, err
	}

	if !changed && rec.Status != domain.PaymentCompleted {
		// failed and refunded are terminal; acknowledging stops redelivery.
		s.loggerf("level=warn msg=success event for terminal payment dropped txn_id=%s status=%s", txnID, rec.Status)
		return rec, nil
	}

	if err := s.bookings.ConfirmIfPending(ctx, rec.BookingID); err != nil {
		// Payment state is already committed; surfacing the error makes the
		// delivery channel retry, and the next ApplySuccess re-runs this.
		s.loggerf("level=error msg=booking confirm failed after payment completed booking_id=%d txn_id=%s err=%v",
			rec.BookingID, txnID, err)
		return nil, err
	}

	if changed {
		s.loggerf("level=info msg=payment completed provider=%s txn_id=%s booking_id=%d", rec.Provider, txnID, rec.BookingID)
		if s.events != nil {
			s.events.PaymentStatus(rec.BookingID, rec.Provider, domain.PaymentCompleted)
			var propertyID int64
			if b, gerr := s.bookings.GetByID(ctx, rec.BookingID); gerr == nil {
				propertyID = b.PropertyID
			}
			s.events.BookingConfirmed(rec.BookingID, propertyID)
		}
	} else {
		s.loggerf("level=info msg=duplicate success event ignored txn_id=%s", txnID)
	}
	return rec, nil
}

// ApplyFailure records a provider-reported decline or failure. The booking
// stays pending so the guest can retry with a fresh payment attempt.
func (s *Service) ApplyFailure(ctx context.Context, txnID, rawPayload string) error {
	err := s.payments.MarkFailed(ctx, txnID, rawPayload)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.loggerf("level=warn msg=unknown transaction dropped txn_id=%s", txnID)
		return ErrUnknownTransaction
	}
	if err != nil {
		return err
	}
	s.loggerf("level=info msg=payment failed txn_id=%s", txnID)
	if s.events != nil {
		if rec, gerr := s.payments.GetByTransactionID(ctx, txnID); gerr == nil {
			s.events.PaymentStatus(rec.BookingID, rec.Provider, domain.PaymentFailed)
		}
	}
	return nil
}

// Capture runs a synchronous capture/confirm/commit call against the provider
// and reconciles the result. The record must exist before the provider is
// asked to move money.
func (s *Service) Capture(ctx context.Context, provider domain.PaymentProvider, txnID string) (*Outcome, error) {
	p, ok := s.registry.Get(provider)
	if !ok {
		return nil, ErrProviderNotConfigured
	}
	if _, err := s.payments.GetByTransactionID(ctx, txnID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownTransaction
		}
		return nil, err
	}

	out, err := p.Capture(ctx, txnID)
	if err != nil {
		return nil, err
	}

	if out.OK {
		if _, err := s.ApplySuccess(ctx, txnID, string(out.Raw)); err != nil {
			return nil, err
		}
	} else {
		if err := s.ApplyFailure(ctx, txnID, string(out.Raw)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Status polls the provider without touching local state.
func (s *Service) Status(ctx context.Context, provider domain.PaymentProvider, txnID string) (*Outcome, error) {
	p, ok := s.registry.Get(provider)
	if !ok {
		return nil, ErrProviderNotConfigured
	}
	return p.Status(ctx, txnID)
}

// Refund moves a completed record to refunded. The booking status is
// deliberately left alone: cancelling a refunded booking is a separate admin
// action, so a goodwill refund without cancellation stays representable.
func (s *Service) Refund(ctx context.Context, provider domain.PaymentProvider, txnID string, amount float64) (*Outcome, error) {
	p, ok := s.registry.Get(provider)
	if !ok {
		return nil, ErrProviderNotConfigured
	}

	rec, err := s.payments.GetByTransactionID(ctx, txnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownTransaction
		}
		return nil, err
	}
	if rec.Status != domain.PaymentCompleted {
		return nil, ErrNotRefundable
	}

	out, err := p.Refund(ctx, txnID, amount)
	if err != nil {
		return nil, err
	}
	if !out.OK {
		return out, nil
	}

	if err := s.payments.MarkRefunded(ctx, txnID, string(out.Raw)); err != nil {
		return nil, err
	}
	s.loggerf("level=info msg=payment refunded provider=%s txn_id=%s booking_id=%d amount=%.2f", provider, txnID, rec.BookingID, amount)
	if s.events != nil {
		s.events.PaymentStatus(rec.BookingID, rec.Provider, domain.PaymentRefunded)
	}
	return out, nil
}

// ProcessWebhookEvent dispatches a verified webhook event. Unknown
// transaction ids are acknowledged (nil) after logging: redelivering a
// forged or early event cannot help, and the outbound create path guarantees
// the record exists before the provider learns the id. Storage errors are
// returned so the delivery channel retries.
func (s *Service) ProcessWebhookEvent(ctx context.Context, ev *WebhookEvent) error {
	switch ev.Type {
	case "payment_intent.succeeded":
		_, err := s.ApplySuccess(ctx, ev.TransactionID, string(ev.Raw))
		if errors.Is(err, ErrUnknownTransaction) {
			return nil
		}
		return err
	case "payment_intent.payment_failed":
		err := s.ApplyFailure(ctx, ev.TransactionID, string(ev.Raw))
		if errors.Is(err, ErrUnknownTransaction) {
			return nil
		}
		return err
	default:
		s.loggerf("level=info msg=webhook event ignored type=%s", ev.Type)
		return nil
	}
}

// ListForBooking returns the payment attempts for a booking, restricted to
// the booking owner or a caller with the view-all capability. It also
// re-derives the booking projection: a completed payment always implies a
// confirmed booking, even if the original confirmation write was lost.
func (s *Service) ListForBooking(ctx context.Context, callerID int64, role domain.Role, bookingID int64) ([]domain.PaymentRecord, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	owned := b.ClientID != nil && *b.ClientID == callerID
	if !owned && !role.Allows(domain.ActionViewAllBookings) {
		return nil, ErrForbidden
	}

	records, err := s.payments.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.Status == domain.BookingPending {
		for _, rec := range records {
			if rec.Status == domain.PaymentCompleted {
				if err := s.bookings.ConfirmIfPending(ctx, bookingID); err != nil {
					s.loggerf("level=error msg=booking status re-derivation failed booking_id=%d err=%v", bookingID, err)
				}
				break
			}
		}
	}
	return records, nil
}
