package kafka

import (
	"time"

	"github.com/Domenick1991/travelease/internal/domain"
)

type BookingEvent struct {
	Type       string     `json:"type"`
	BookingID  int64      `json:"booking_id"`
	Reference  string     `json:"reference"`
	UserID     int64      `json:"user_id"`
	FlightID   *int64     `json:"flight_id,omitempty"`
	Seats      int        `json:"seats,omitempty"`
	HotelID    *int64     `json:"hotel_id,omitempty"`
	RoomID     *int64     `json:"room_id,omitempty"`
	Status     string     `json:"status"`
	TotalCents int64      `json:"total_cents"`
	Currency   string     `json:"currency"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

func NewBookingEvent(eventType string, b *domain.Booking) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  b.ID,
		Reference:  b.Reference,
		UserID:     b.UserID,
		FlightID:   b.FlightID,
		Seats:      b.Seats,
		HotelID:    b.HotelID,
		RoomID:     b.RoomID,
		Status:     string(b.Status),
		TotalCents: b.TotalCents,
		Currency:   b.Currency,
		ExpiresAt:  b.ExpiresAt,
	}
}

// NotificationEvent is the wire form of domain.Notification on the
// notifications topic.
type NotificationEvent struct {
	Recipient  string            `json:"recipient"`
	UserName   string            `json:"user_name,omitempty"`
	Kind       string            `json:"kind"`
	Code       string            `json:"code,omitempty"`
	TTLMinutes int               `json:"ttl_minutes,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
}

func NewNotificationEvent(n domain.Notification) NotificationEvent {
	return NotificationEvent{
		Recipient:  n.Recipient,
		UserName:   n.UserName,
		Kind:       string(n.Kind),
		Code:       n.Code,
		TTLMinutes: n.TTLMinutes,
		Data:       n.Data,
	}
}

func (e NotificationEvent) Notification() domain.Notification {
	return domain.Notification{
		Recipient:  e.Recipient,
		UserName:   e.UserName,
		Kind:       domain.NotificationKind(e.Kind),
		Code:       e.Code,
		TTLMinutes: e.TTLMinutes,
		Data:       e.Data,
	}
}
