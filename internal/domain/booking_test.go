package domain

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2026, time.September, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		a1, a2, b1, b2 time.Time
		want           bool
	}{
		{"identical ranges", day(1), day(5), day(1), day(5), true},
		{"partial overlap front", day(1), day(5), day(3), day(8), true},
		{"partial overlap back", day(3), day(8), day(1), day(5), true},
		{"contained", day(2), day(4), day(1), day(5), true},
		{"containing", day(1), day(5), day(2), day(4), true},
		{"single shared night", day(1), day(5), day(4), day(6), true},
		{"adjacent, checkout meets checkin", day(1), day(5), day(5), day(9), false},
		{"adjacent, checkin meets checkout", day(5), day(9), day(1), day(5), false},
		{"disjoint", day(1), day(3), day(6), day(9), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a1, tt.a2, tt.b1, tt.b2); got != tt.want {
				t.Fatalf("Overlaps(%v, %v, %v, %v) = %v, want %v",
					tt.a1.Format("01-02"), tt.a2.Format("01-02"),
					tt.b1.Format("01-02"), tt.b2.Format("01-02"), got, tt.want)
			}
		})
	}
}

func TestBookingActive(t *testing.T) {
	for _, tt := range []struct {
		status BookingStatus
		want   bool
	}{
		{BookingPending, true},
		{BookingConfirmed, true},
		{BookingCancelled, false},
		{BookingCompleted, false},
	} {
		b := &Booking{Status: tt.status}
		if b.Active() != tt.want {
			t.Fatalf("Active() for %s = %v, want %v", tt.status, b.Active(), tt.want)
		}
	}
}
