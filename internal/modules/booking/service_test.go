package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"staybook/internal/domain"
	"staybook/internal/repository"
)

type mockBookingStore struct {
	existing []domain.Booking
	created  []*domain.Booking
	nextID   int64
}

func (m *mockBookingStore) conflicts(b *domain.Booking) bool {
	for _, e := range m.existing {
		if e.PropertyID == b.PropertyID && e.Active() &&
			domain.Overlaps(e.CheckIn, e.CheckOut, b.CheckIn, b.CheckOut) {
			return true
		}
	}
	return false
}

func (m *mockBookingStore) CreateIfAvailable(ctx context.Context, b *domain.Booking) error {
	if m.conflicts(b) {
		return repository.ErrDateConflict
	}
	m.nextID++
	b.ID = m.nextID
	m.existing = append(m.existing, *b)
	m.created = append(m.created, b)
	return nil
}

func (m *mockBookingStore) IsAvailable(ctx context.Context, propertyID int64, checkIn, checkOut time.Time, excludeBookingID int64) (bool, error) {
	probe := &domain.Booking{PropertyID: propertyID, CheckIn: checkIn, CheckOut: checkOut, Status: domain.BookingPending}
	return !m.conflicts(probe), nil
}

func (m *mockBookingStore) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	for i := range m.existing {
		if m.existing[i].ID == id {
			return &m.existing[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBookingStore) ListWithProperty(ctx context.Context) ([]repository.BookingWithProperty, error) {
	return nil, nil
}

func (m *mockBookingStore) ListForCalendar(ctx context.Context, month, year int) ([]repository.BookingWithProperty, error) {
	return nil, nil
}

func (m *mockBookingStore) UpdateStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) error {
	for i := range m.existing {
		if m.existing[i].ID == bookingID {
			m.existing[i].Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type mockPropertyStore struct {
	properties map[int64]*domain.Property
}

func (m *mockPropertyStore) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	p, ok := m.properties[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(dateLayout)
}

func newBookingService(bookings *mockBookingStore) *Service {
	props := &mockPropertyStore{properties: map[int64]*domain.Property{
		1: {ID: 1, IsActive: true},
		2: {ID: 2, IsActive: false},
	}}
	return NewService(bookings, props, nil, nil)
}

func TestCreate_DateValidation(t *testing.T) {
	svc := newBookingService(&mockBookingStore{})

	tests := []struct {
		name     string
		checkIn  string
		checkOut string
	}{
		{"zero nights", futureDate(10), futureDate(10)},
		{"checkout before checkin", futureDate(10), futureDate(8)},
		{"checkin in the past", futureDate(-3), futureDate(2)},
		{"malformed date", "10-01-2026", futureDate(12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 1, CreateBookingRequest{
				PropertyID: 1, CheckIn: tt.checkIn, CheckOut: tt.checkOut,
			})
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreate_ConflictMapsToNotAvailable(t *testing.T) {
	in, _ := time.Parse(dateLayout, futureDate(10))
	out, _ := time.Parse(dateLayout, futureDate(15))
	store := &mockBookingStore{existing: []domain.Booking{
		{ID: 1, PropertyID: 1, CheckIn: in, CheckOut: out, Status: domain.BookingConfirmed},
	}, nextID: 1}
	svc := newBookingService(store)

	_, err := svc.Create(context.Background(), 1, CreateBookingRequest{
		PropertyID: 1, CheckIn: futureDate(12), CheckOut: futureDate(17),
	})
	if !errors.Is(err, ErrNotAvailable) {
		t.Fatalf("expected ErrNotAvailable, got %v", err)
	}
}

func TestCreate_ExactDuplicateRejected(t *testing.T) {
	store := &mockBookingStore{}
	svc := newBookingService(store)
	req := CreateBookingRequest{PropertyID: 1, CheckIn: futureDate(10), CheckOut: futureDate(15)}

	if _, err := svc.Create(context.Background(), 1, req); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := svc.Create(context.Background(), 2, req); !errors.Is(err, ErrNotAvailable) {
		t.Fatalf("identical range must conflict, got %v", err)
	}
}

func TestCreate_AdjacentStaysAllowed(t *testing.T) {
	store := &mockBookingStore{}
	svc := newBookingService(store)

	if _, err := svc.Create(context.Background(), 1, CreateBookingRequest{
		PropertyID: 1, CheckIn: futureDate(10), CheckOut: futureDate(15),
	}); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	// Same-day turnover: next guest checks in the day the first checks out.
	b, err := svc.Create(context.Background(), 2, CreateBookingRequest{
		PropertyID: 1, CheckIn: futureDate(15), CheckOut: futureDate(20),
	})
	if err != nil {
		t.Fatalf("adjacent booking must be allowed: %v", err)
	}
	if b.Status != domain.BookingPending {
		t.Fatalf("new booking status = %s, want pending", b.Status)
	}
}

func TestCreate_CancelledBookingDoesNotBlock(t *testing.T) {
	in, _ := time.Parse(dateLayout, futureDate(10))
	out, _ := time.Parse(dateLayout, futureDate(15))
	store := &mockBookingStore{existing: []domain.Booking{
		{ID: 1, PropertyID: 1, CheckIn: in, CheckOut: out, Status: domain.BookingCancelled},
	}, nextID: 1}
	svc := newBookingService(store)

	if _, err := svc.Create(context.Background(), 1, CreateBookingRequest{
		PropertyID: 1, CheckIn: futureDate(10), CheckOut: futureDate(15),
	}); err != nil {
		t.Fatalf("cancelled booking must not block: %v", err)
	}
}

func TestCreate_InactiveProperty(t *testing.T) {
	svc := newBookingService(&mockBookingStore{})

	_, err := svc.Create(context.Background(), 1, CreateBookingRequest{
		PropertyID: 2, CheckIn: futureDate(10), CheckOut: futureDate(15),
	})
	if !errors.Is(err, ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound for inactive property, got %v", err)
	}
}

func TestGet_Ownership(t *testing.T) {
	owner := int64(10)
	in, _ := time.Parse(dateLayout, futureDate(10))
	out, _ := time.Parse(dateLayout, futureDate(15))
	store := &mockBookingStore{existing: []domain.Booking{
		{ID: 1, PropertyID: 1, ClientID: &owner, CheckIn: in, CheckOut: out, Status: domain.BookingPending},
	}}
	svc := newBookingService(store)

	if _, err := svc.Get(context.Background(), 10, domain.RoleClient, 1); err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if _, err := svc.Get(context.Background(), 99, domain.RoleClient, 1); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}
	if _, err := svc.Get(context.Background(), 99, domain.RoleAdmin, 1); err != nil {
		t.Fatalf("admin lookup: %v", err)
	}
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	svc := newBookingService(&mockBookingStore{})
	if err := svc.UpdateStatus(context.Background(), 1, "paused"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
