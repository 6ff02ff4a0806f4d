package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"staybook/internal/domain"
)

// ErrInvalidTransition is returned when a status change is requested from a
// state that does not permit it (e.g. refunding a payment that never
// completed).
var ErrInvalidTransition = errors.New("invalid payment status transition")

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.PaymentRecord) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) GetByTransactionID(ctx context.Context, txnID string) (*domain.PaymentRecord, error) {
	var p domain.PaymentRecord
	if err := r.db.WithContext(ctx).Where("provider_transaction_id = ?", txnID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkCompletedIdempotent moves a record from pending to completed exactly
// once. Pending is the only legal source state: a duplicate success event for
// an already-completed record matches zero rows and reports changed=false, and
// a success redelivered after the record went failed or refunded matches zero
// rows too instead of resurrecting a terminal state. The record is returned
// either way so the caller can inspect its status and confirm the owning
// booking.
func (r *PaymentRepository) MarkCompletedIdempotent(ctx context.Context, txnID, rawPayload string, paidAt time.Time) (bool, *domain.PaymentRecord, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.PaymentRecord{}).
		Where("provider_transaction_id = ? AND status = ?", txnID, domain.PaymentPending).
		Updates(map[string]interface{}{
			"status":      domain.PaymentCompleted,
			"raw_payload": rawPayload,
			"paid_at":     paidAt,
		})
	if res.Error != nil {
		return false, nil, res.Error
	}

	p, err := r.GetByTransactionID(ctx, txnID)
	if err != nil {
		return false, nil, err
	}
	return res.RowsAffected > 0, p, nil
}

// MarkFailed transitions pending -> failed. A completed or refunded record is
// left untouched; a late failure event for it is meaningless.
func (r *PaymentRepository) MarkFailed(ctx context.Context, txnID, rawPayload string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.PaymentRecord{}).
		Where("provider_transaction_id = ? AND status = ?", txnID, domain.PaymentPending).
		Updates(map[string]interface{}{
			"status":      domain.PaymentFailed,
			"raw_payload": rawPayload,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.ensureExists(ctx, txnID)
	}
	return nil
}

// MarkRefunded transitions completed -> refunded only.
func (r *PaymentRepository) MarkRefunded(ctx context.Context, txnID, rawPayload string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.PaymentRecord{}).
		Where("provider_transaction_id = ? AND status = ?", txnID, domain.PaymentCompleted).
		Updates(map[string]interface{}{
			"status":      domain.PaymentRefunded,
			"raw_payload": rawPayload,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if err := r.ensureExists(ctx, txnID); err != nil {
			return err
		}
		return ErrInvalidTransition
	}
	return nil
}

func (r *PaymentRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.PaymentRecord, error) {
	var out []domain.PaymentRecord
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at").
		Find(&out).Error
	return out, err
}

func (r *PaymentRepository) ensureExists(ctx context.Context, txnID string) error {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&domain.PaymentRecord{}).Where("provider_transaction_id = ?", txnID).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
