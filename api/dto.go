package api

import (
	"time"

	"github.com/Domenick1991/travelease/internal/domain"
)

const dateLayout = "2006-01-02"

type userResponse struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	Role            domain.Role       `json:"role"`
	HostStatus      domain.HostStatus `json:"host_status"`
	EmailVerifiedAt *time.Time        `json:"email_verified_at"`
	CreatedAt       time.Time         `json:"created_at"`
}

func newUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		HostStatus:      u.HostStatus,
		EmailVerifiedAt: u.EmailVerifiedAt,
		CreatedAt:       u.CreatedAt,
	}
}

type bookingResponse struct {
	ID         int64                `json:"id"`
	Reference  string               `json:"reference"`
	UserID     int64                `json:"user_id"`
	HotelID    *int64               `json:"hotel_id,omitempty"`
	RoomID     *int64               `json:"room_id,omitempty"`
	CheckIn    *string              `json:"check_in,omitempty"`
	CheckOut   *string              `json:"check_out,omitempty"`
	Guests     int                  `json:"guests,omitempty"`
	FlightID   *int64               `json:"flight_id,omitempty"`
	Seats      int                  `json:"seats,omitempty"`
	TotalCents int64                `json:"total_cents"`
	Currency   string               `json:"currency"`
	Status     domain.BookingStatus `json:"status"`
	Payment    domain.PaymentStatus `json:"payment_status"`
	ExpiresAt  *time.Time           `json:"expires_at,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func newBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:         b.ID,
		Reference:  b.Reference,
		UserID:     b.UserID,
		HotelID:    b.HotelID,
		RoomID:     b.RoomID,
		CheckIn:    formatDate(b.CheckIn),
		CheckOut:   formatDate(b.CheckOut),
		Guests:     b.Guests,
		FlightID:   b.FlightID,
		Seats:      b.Seats,
		TotalCents: b.TotalCents,
		Currency:   b.Currency,
		Status:     b.Status,
		Payment:    b.Payment,
		ExpiresAt:  b.ExpiresAt,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func newBookingsResponse(bookings []domain.Booking) []bookingResponse {
	resp := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		resp = append(resp, newBookingResponse(&bookings[i]))
	}
	return resp
}

type flightResponse struct {
	ID             int64     `json:"id"`
	FromAirport    string    `json:"from_airport"`
	ToAirport      string    `json:"to_airport"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
	PriceCents     int64     `json:"price_cents"`
	Currency       string    `json:"currency"`
}

func newFlightResponse(f *domain.Flight) flightResponse {
	return flightResponse{
		ID:             f.ID,
		FromAirport:    f.FromAirport,
		ToAirport:      f.ToAirport,
		DepartureTime:  f.DepartureTime,
		ArrivalTime:    f.ArrivalTime,
		TotalSeats:     f.TotalSeats,
		AvailableSeats: f.AvailableSeats,
		PriceCents:     f.PriceCents,
		Currency:       f.Currency,
	}
}

type activityResponse struct {
	ID        int64                 `json:"id"`
	ActorID   int64                 `json:"actor_id"`
	Action    domain.ActivityAction `json:"action"`
	Metadata  map[string]any        `json:"metadata"`
	CreatedAt time.Time             `json:"created_at"`
}

type statsResponse struct {
	UsersByRole      map[domain.Role]int64          `json:"users_by_role"`
	BookingsByStatus map[domain.BookingStatus]int64 `json:"bookings_by_status"`
	RevenueCents     map[string]int64               `json:"revenue_cents"`
}
