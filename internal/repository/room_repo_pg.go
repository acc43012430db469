package repository

import (
	"context"

	"github.com/Domenick1991/travelease/internal/domain"
)

type RoomRepository interface {
	GetRoom(ctx context.Context, hotelID, roomID int64) (*domain.Room, error)
}

type PGRoomRepository struct {
	db DB
}

func NewRoomRepository(db DB) RoomRepository {
	return &PGRoomRepository{db: db}
}

func (r *PGRoomRepository) GetRoom(ctx context.Context, hotelID, roomID int64) (*domain.Room, error) {
	row := r.db.QueryRow(ctx, `SELECT id, hotel_id, name, capacity, nightly_price_cents, currency FROM rooms WHERE id=$1 AND hotel_id=$2`, roomID, hotelID)
	var room domain.Room
	if err := row.Scan(&room.ID, &room.HotelID, &room.Name, &room.Capacity, &room.NightlyPriceCents, &room.Currency); err != nil {
		return nil, notFound(err)
	}
	return &room, nil
}

var _ RoomRepository = (*PGRoomRepository)(nil)
