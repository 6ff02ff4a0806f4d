package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"staybook/internal/domain"
)

// ErrDateConflict is returned when a booking would overlap an active booking
// on the same property.
var ErrDateConflict = errors.New("property is not available for the selected dates")

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// overlapQuery counts active bookings whose half-open [check_in, check_out)
// interval overlaps the candidate one: existing.check_in < new.check_out AND
// existing.check_out > new.check_in. Adjacent stays never match.
const overlapQuery = `
SELECT COUNT(1)
FROM bookings
WHERE property_id = ?
  AND status IN ('pending', 'confirmed')
  AND check_in < ?
  AND check_out > ?
  AND id <> ?
`

// IsAvailable is the pure overlap predicate. excludeBookingID lets a
// reschedule-in-place check skip the booking being modified; pass 0 otherwise.
func (r *BookingRepository) IsAvailable(ctx context.Context, propertyID int64, checkIn, checkOut time.Time, excludeBookingID int64) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Raw(overlapQuery, propertyID, checkOut, checkIn, excludeBookingID).Scan(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt == 0, nil
}

// CreateIfAvailable runs the read-check-then-insert under one transaction.
// The property row is touched first so two racing inserts for the same
// property serialize on its row lock; the second transaction re-runs the
// overlap count after the first commits and fails with ErrDateConflict.
// The touch-update also doubles as the property existence check.
func (r *BookingRepository) CreateIfAvailable(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`UPDATE properties SET updated_at = ? WHERE id = ?`, time.Now().UTC(), b.PropertyID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var cnt int64
		if err := tx.Raw(overlapQuery, b.PropertyID, b.CheckOut, b.CheckIn, int64(0)).Scan(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			return ErrDateConflict
		}

		if err := tx.Create(b).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				// 23P01: exclusion_violation from a daterange && constraint,
				// 23505: unique_violation; either means we lost the race.
				if pgErr.Code == "23P01" || pgErr.Code == "23505" {
					return ErrDateConflict
				}
			}
			return err
		}
		return nil
	})
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// BookingWithProperty is a booking row joined with its property title and
// location for list/calendar views.
type BookingWithProperty struct {
	domain.Booking
	PropertyTitle    string `json:"propertyTitle"`
	PropertyLocation string `json:"propertyLocation"`
}

func (r *BookingRepository) ListWithProperty(ctx context.Context) ([]BookingWithProperty, error) {
	var rows []BookingWithProperty
	err := r.db.WithContext(ctx).
		Table("bookings").
		Select("bookings.*, properties.title AS property_title, properties.location AS property_location").
		Joins("JOIN properties ON properties.id = bookings.property_id").
		Order("bookings.check_in DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *BookingRepository) ListForCalendar(ctx context.Context, month, year int) ([]BookingWithProperty, error) {
	q := r.db.WithContext(ctx).
		Table("bookings").
		Select("bookings.*, properties.title AS property_title, properties.location AS property_location").
		Joins("JOIN properties ON properties.id = bookings.property_id").
		Where("bookings.status IN ('confirmed', 'pending', 'completed')")
	if month > 0 && year > 0 {
		from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 1, 0)
		q = q.Where("bookings.check_in >= ? AND bookings.check_in < ?", from, to)
	}
	var rows []BookingWithProperty
	err := q.Order("bookings.check_in").Scan(&rows).Error
	return rows, err
}

// ConfirmIfPending flips a pending booking to confirmed. It is a no-op when
// the booking is already confirmed, which makes the confirmation re-derivable
// from a completed payment regardless of how often the success path runs.
func (r *BookingRepository) ConfirmIfPending(ctx context.Context, bookingID int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND status = ?", bookingID, domain.BookingPending).
		Update("status", domain.BookingConfirmed).Error
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", bookingID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *BookingRepository) CountAll(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).Count(&cnt).Error
	return cnt, err
}

// TotalRevenue sums the price of confirmed and completed bookings.
func (r *BookingRepository) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("status IN ('confirmed', 'completed')").
		Scan(&total).Error
	return total, err
}

func (r *BookingRepository) IsOwnedBy(ctx context.Context, bookingID, userID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND client_id = ?", bookingID, userID).
		Count(&cnt).Error
	return cnt > 0, err
}
