package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/jackc/pgx/v5"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	// Cancel cancels a booking owned by userID. It returns apperr.ErrNotFound
	// when no such booking belongs to the user and domain.ErrAlreadyCancelled
	// when it is already cancelled.
	Cancel(ctx context.Context, id, userID int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
	CountByStatus(ctx context.Context) (map[domain.BookingStatus]int64, error)
	RevenueByCurrency(ctx context.Context) (map[string]int64, error)
}

type PGBookingRepository struct {
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, reference, user_id, hotel_id, room_id, check_in, check_out, guests, flight_id, seats, total_cents, currency, status, payment_status, expires_at, created_at, updated_at, seats_held`

func bookingDest(b *domain.Booking) []any {
	return []any{&b.ID, &b.Reference, &b.UserID, &b.HotelID, &b.RoomID, &b.CheckIn, &b.CheckOut, &b.Guests,
		&b.FlightID, &b.Seats, &b.TotalCents, &b.Currency, &b.Status, &b.Payment, &b.ExpiresAt, &b.CreatedAt, &b.UpdatedAt, &b.SeatsHeld}
}

func scanBooking(row scanner) (domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(bookingDest(&b)...)
	return b, err
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	defer rows.Close()
	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func reserveSeats(ctx context.Context, tx pgx.Tx, flightID int64, seats int) error {
	tag, err := tx.Exec(ctx, `UPDATE flights SET available_seats = available_seats - $2, updated_at = now() WHERE id=$1 AND available_seats >= $2`, flightID, seats)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotEnoughSeats
	}
	return nil
}

func releaseSeats(ctx context.Context, tx pgx.Tx, flightID int64, seats int) error {
	_, err := tx.Exec(ctx, `UPDATE flights SET available_seats = LEAST(total_seats, available_seats + $2), updated_at = now() WHERE id=$1`, flightID, seats)
	return err
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if booking.IsFlight() {
		if err := reserveSeats(ctx, tx, *booking.FlightID, booking.Seats); err != nil {
			return err
		}
	}
	booking.SeatsHeld = booking.IsFlight()

	if err := tx.QueryRow(ctx, `INSERT INTO bookings (reference, user_id, hotel_id, room_id, check_in, check_out, guests, flight_id, seats, total_cents, currency, status, payment_status, expires_at, seats_held)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at`,
		booking.Reference, booking.UserID, booking.HotelID, booking.RoomID, booking.CheckIn, booking.CheckOut, booking.Guests,
		booking.FlightID, booking.Seats, booking.TotalCents, booking.Currency, booking.Status, booking.Payment, booking.ExpiresAt, booking.SeatsHeld).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// Cancel locks the row so two concurrent cancels serialize: the second one
// observes the cancelled status and gets ErrAlreadyCancelled.
func (r *PGBookingRepository) Cancel(ctx context.Context, id, userID int64) (*domain.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	current, err := scanBooking(tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1 AND user_id=$2 FOR UPDATE`, id, userID))
	if err != nil {
		return nil, notFound(err)
	}
	if current.Status == domain.BookingStatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}

	updated, err := scanBooking(tx.QueryRow(ctx, `UPDATE bookings SET status=$1, seats_held=false, updated_at=now() WHERE id=$2 RETURNING `+bookingColumns, domain.BookingStatusCancelled, id))
	if err != nil {
		return nil, err
	}
	if current.HoldsInventory() {
		if err := releaseSeats(ctx, tx, *current.FlightID, current.Seats); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateStatus sets any status without transition checks. Seats still held
// are released when the booking leaves pending/confirmed; moving back into
// those statuses does not reserve them again, so the booking stays without
// seats_held and is never released twice.
func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	current, err := scanBooking(tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		return nil, notFound(err)
	}

	updated, err := scanBooking(tx.QueryRow(ctx, `UPDATE bookings SET status=$1, seats_held = seats_held AND $3, updated_at=now() WHERE id=$2 RETURNING `+bookingColumns,
		status, id, status.Holding()))
	if err != nil {
		return nil, err
	}
	if current.HoldsInventory() && !status.Holding() {
		if err := releaseSeats(ctx, tx, *current.FlightID, current.Seats); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ExpirePendingBefore expires overdue pending bookings and releases the seats
// those bookings still held.
func (r *PGBookingRepository) ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `WITH due AS (
			SELECT id AS due_id, seats_held AS held FROM bookings
			WHERE status=$2 AND expires_at <= $3
			FOR UPDATE
		)
		UPDATE bookings SET status=$1, seats_held=false, updated_at=now()
		FROM due WHERE id = due.due_id
		RETURNING `+bookingColumns+`, due.held`,
		domain.BookingStatusExpired, domain.BookingStatusPending, deadline)
	if err != nil {
		return nil, err
	}

	expired := make([]domain.Booking, 0)
	held := make([]bool, 0)
	for rows.Next() {
		var b domain.Booking
		var wasHeld bool
		if err := rows.Scan(append(bookingDest(&b), &wasHeld)...); err != nil {
			rows.Close()
			return nil, err
		}
		expired = append(expired, b)
		held = append(held, wasHeld)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, b := range expired {
		if b.IsFlight() && held[i] {
			if err := releaseSeats(ctx, tx, *b.FlightID, b.Seats); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return expired, nil
}

func (r *PGBookingRepository) CountByStatus(ctx context.Context) (map[domain.BookingStatus]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, count(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.BookingStatus]int64)
	for rows.Next() {
		var status domain.BookingStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *PGBookingRepository) RevenueByCurrency(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT currency, COALESCE(sum(total_cents), 0) FROM bookings WHERE status=$1 GROUP BY currency`, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	revenue := make(map[string]int64)
	for rows.Next() {
		var currency string
		var total int64
		if err := rows.Scan(&currency, &total); err != nil {
			return nil, err
		}
		revenue[currency] = total
	}
	return revenue, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
