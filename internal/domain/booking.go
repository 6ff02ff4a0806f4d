package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type BookingSource string

const (
	SourceDirect  BookingSource = "direct"
	SourceBooking BookingSource = "booking"
	SourceAirbnb  BookingSource = "airbnb"
	SourceVrbo    BookingSource = "vrbo"
)

// Booking holds a half-open stay interval [CheckIn, CheckOut). Two bookings
// on the same property conflict only while both are pending or confirmed.
type Booking struct {
	ID              int64         `json:"id"`
	PropertyID      int64         `json:"propertyId" gorm:"index;not null"`
	ClientID        *int64        `json:"clientId,omitempty" gorm:"index"`
	CheckIn         time.Time     `json:"checkIn" gorm:"index;not null"`
	CheckOut        time.Time     `json:"checkOut" gorm:"not null"`
	Guests          int           `json:"guests"`
	TotalPrice      float64       `json:"totalPrice"`
	Status          BookingStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Source          BookingSource `json:"source" gorm:"type:varchar(20);default:'direct'"`
	ExternalID      string        `json:"externalId,omitempty"`
	GuestName       string        `json:"guestName"`
	GuestEmail      string        `json:"guestEmail"`
	GuestPhone      string        `json:"guestPhone,omitempty"`
	SpecialRequests string        `json:"specialRequests,omitempty" gorm:"type:text"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

func (Booking) TableName() string { return "bookings" }

// Active reports whether the booking blocks its date range.
func (b *Booking) Active() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// Overlaps is the canonical half-open interval test: [a1,a2) and [b1,b2)
// overlap iff a1 < b2 && a2 > b1. A checkout on day N does not conflict with
// a check-in on day N.
func Overlaps(a1, a2, b1, b2 time.Time) bool {
	return a1.Before(b2) && a2.After(b1)
}
