package domain

type Room struct {
	ID                int64
	HotelID           int64
	Name              string
	Capacity          int
	NightlyPriceCents int64
	Currency          string
}
