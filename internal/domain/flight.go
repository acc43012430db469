package domain

import "time"

type Flight struct {
	ID             int64
	FromAirport    string
	ToAirport      string
	DepartureTime  time.Time
	ArrivalTime    time.Time
	TotalSeats     int
	AvailableSeats int
	PriceCents     int64
	Currency       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type FlightFilter struct {
	FromAirport string
	ToAirport   string
	// DepartureDate matches flights departing on the same UTC calendar day.
	DepartureDate *time.Time
}

// Matches reports whether f satisfies every non-empty criterion.
func (ff FlightFilter) Matches(f Flight) bool {
	if ff.FromAirport != "" && ff.FromAirport != f.FromAirport {
		return false
	}
	if ff.ToAirport != "" && ff.ToAirport != f.ToAirport {
		return false
	}
	if ff.DepartureDate != nil {
		y1, m1, d1 := ff.DepartureDate.UTC().Date()
		y2, m2, d2 := f.DepartureTime.UTC().Date()
		if y1 != y2 || m1 != m2 || d1 != d2 {
			return false
		}
	}
	return true
}
