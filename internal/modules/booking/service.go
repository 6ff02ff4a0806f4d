package booking

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"staybook/internal/domain"
	"staybook/internal/repository"
)

const dateLayout = "2006-01-02"

type Service struct {
	bookings   bookingStore
	properties propertyStore
	events     EventSink
	loggerf    func(format string, args ...interface{})
}

func NewService(bookings bookingStore, properties propertyStore, events EventSink, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{bookings: bookings, properties: properties, events: events, loggerf: loggerf}
}

// ParseStayDates parses "YYYY-MM-DD" check-in/check-out strings into the
// half-open [checkIn, checkOut) interval and validates its shape: checkout
// strictly after checkin, checkin not in the past. Same-day turnover is
// allowed by the interval semantics, zero-night stays are not.
func ParseStayDates(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, ErrValidation
	}
	out, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, ErrValidation
	}
	if !out.After(in) {
		return time.Time{}, time.Time{}, ErrValidation
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if in.Before(today) {
		return time.Time{}, time.Time{}, ErrValidation
	}
	return in, out, nil
}

// Create inserts a new pending booking after the availability check. The
// check and insert run atomically in the store, so two racing requests for
// overlapping dates can never both succeed.
func (s *Service) Create(ctx context.Context, clientID int64, req CreateBookingRequest) (*domain.Booking, error) {
	in, out, err := ParseStayDates(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	p, err := s.properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	if !p.IsActive {
		return nil, ErrPropertyNotFound
	}

	guests := req.Guests
	if guests <= 0 {
		guests = 1
	}

	b := &domain.Booking{
		PropertyID:      req.PropertyID,
		ClientID:        &clientID,
		CheckIn:         in,
		CheckOut:        out,
		Guests:          guests,
		TotalPrice:      req.TotalPrice,
		Status:          domain.BookingPending,
		Source:          domain.SourceDirect,
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		SpecialRequests: req.SpecialRequests,
	}

	if err := s.bookings.CreateIfAvailable(ctx, b); err != nil {
		switch {
		case errors.Is(err, repository.ErrDateConflict):
			return nil, ErrNotAvailable
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	s.loggerf("level=info msg=booking created booking_id=%d property_id=%d check_in=%s check_out=%s",
		b.ID, b.PropertyID, in.Format(dateLayout), out.Format(dateLayout))
	if s.events != nil {
		s.events.BookingCreated(b.ID, b.PropertyID)
	}
	return b, nil
}

// CheckAvailability answers the read-only availability question. The result
// is advisory: only Create decides authoritatively, under the transaction.
func (s *Service) CheckAvailability(ctx context.Context, req AvailabilityRequest) (bool, error) {
	in, out, err := ParseStayDates(req.CheckIn, req.CheckOut)
	if err != nil {
		return false, err
	}
	return s.bookings.IsAvailable(ctx, req.PropertyID, in, out, 0)
}

func (s *Service) Get(ctx context.Context, callerID int64, role domain.Role, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
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
	return b, nil
}

func (s *Service) List(ctx context.Context) ([]repository.BookingWithProperty, error) {
	return s.bookings.ListWithProperty(ctx)
}

// Calendar returns active bookings for the given month joined with property
// info; month/year of zero means everything.
func (s *Service) Calendar(ctx context.Context, month, year int) ([]repository.BookingWithProperty, error) {
	return s.bookings.ListForCalendar(ctx, month, year)
}

// UpdateStatus is the staff transition for cancel/complete. Confirmation
// normally arrives through the payment flow, but a manual override is
// allowed here too.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) error {
	st := domain.BookingStatus(status)
	switch st {
	case domain.BookingPending, domain.BookingConfirmed, domain.BookingCancelled, domain.BookingCompleted:
	default:
		return ErrValidation
	}
	if err := s.bookings.UpdateStatus(ctx, id, st); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		return err
	}
	return nil
}
