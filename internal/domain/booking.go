package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusExpired   BookingStatus = "expired"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusExpired:
		return true
	}
	return false
}

// Holding reports whether a flight booking in this status keeps its seats.
func (s BookingStatus) Holding() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Booking is either a hotel stay (HotelID, RoomID, CheckIn, CheckOut, Guests)
// or a flight purchase (FlightID, Seats), never both.
type Booking struct {
	ID         int64
	Reference  string
	UserID     int64
	HotelID    *int64
	RoomID     *int64
	CheckIn    *time.Time
	CheckOut   *time.Time
	Guests     int
	FlightID   *int64
	Seats      int
	TotalCents int64
	Currency   string
	Status     BookingStatus
	Payment    PaymentStatus
	ExpiresAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// SeatsHeld is set while the flight's available_seats count this
	// booking. A status change alone never sets it again.
	SeatsHeld bool
}

func (b *Booking) IsFlight() bool {
	return b.FlightID != nil
}

// HoldsInventory reports whether the booking still occupies flight seats.
func (b *Booking) HoldsInventory() bool {
	return b.IsFlight() && b.SeatsHeld
}
