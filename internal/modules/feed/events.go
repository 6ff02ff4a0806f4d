package feed

import (
	"time"

	"staybook/internal/domain"
)

// Event is one feed entry pushed to connected dashboards.
type Event struct {
	Type       string    `json:"type"`
	BookingID  int64     `json:"bookingId,omitempty"`
	PropertyID int64     `json:"propertyId,omitempty"`
	Provider   string    `json:"provider,omitempty"`
	Status     string    `json:"status,omitempty"`
	At         time.Time `json:"at"`
}

const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventPaymentStatus    = "payment.status"
)

// Publisher turns domain events into hub broadcasts. It satisfies the
// payment module's event sink.
type Publisher struct {
	hub *Hub
}

func NewPublisher(hub *Hub) *Publisher {
	return &Publisher{hub: hub}
}

func (p *Publisher) BookingCreated(bookingID, propertyID int64) {
	p.hub.Broadcast(Event{
		Type:       EventBookingCreated,
		BookingID:  bookingID,
		PropertyID: propertyID,
		At:         time.Now().UTC(),
	})
}

func (p *Publisher) BookingConfirmed(bookingID, propertyID int64) {
	p.hub.Broadcast(Event{
		Type:       EventBookingConfirmed,
		BookingID:  bookingID,
		PropertyID: propertyID,
		At:         time.Now().UTC(),
	})
}

func (p *Publisher) PaymentStatus(bookingID int64, provider domain.PaymentProvider, status domain.PaymentRecordStatus) {
	p.hub.Broadcast(Event{
		Type:      EventPaymentStatus,
		BookingID: bookingID,
		Provider:  string(provider),
		Status:    string(status),
		At:        time.Now().UTC(),
	})
}
