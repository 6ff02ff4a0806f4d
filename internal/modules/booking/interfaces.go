package booking

import (
	"context"
	"time"

	"staybook/internal/domain"
	"staybook/internal/repository"
)

type bookingStore interface {
	CreateIfAvailable(ctx context.Context, b *domain.Booking) error
	IsAvailable(ctx context.Context, propertyID int64, checkIn, checkOut time.Time, excludeBookingID int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListWithProperty(ctx context.Context) ([]repository.BookingWithProperty, error)
	ListForCalendar(ctx context.Context, month, year int) ([]repository.BookingWithProperty, error)
	UpdateStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) error
}

type propertyStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
}

// EventSink receives booking lifecycle events for the admin feed. Nil-safe:
// the service works without one.
type EventSink interface {
	BookingCreated(bookingID, propertyID int64)
}
