package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Domenick1991/travelease/internal/apperr"
	"github.com/Domenick1991/travelease/internal/clock"
	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/kafka"
	"github.com/Domenick1991/travelease/internal/logging"
	"github.com/Domenick1991/travelease/internal/notify"
	"github.com/Domenick1991/travelease/internal/repository"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, user *domain.User, input CreateBookingInput) (*domain.Booking, error)
	ListMyBookings(ctx context.Context, user *domain.User) ([]domain.Booking, error)
	CancelBooking(ctx context.Context, id int64, user *domain.User) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, admin *domain.User) (*domain.Booking, error)
	ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error)
}

// FlightsCache is invalidated whenever seat counts change.
type FlightsCache interface {
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type BookingService struct {
	bookings        repository.BookingRepository
	flights         repository.FlightRepository
	rooms           repository.RoomRepository
	users           repository.UserRepository
	activity        repository.ActivityRepository
	cache           FlightsCache
	producer        Producer
	notifier        notify.Dispatcher
	clock           clock.Clock
	log             logging.Logger
	bookingTopic    string
	holdTTL         time.Duration
	defaultCurrency string
}

type CreateBookingInput struct {
	HotelID  *int64     `json:"hotel_id"`
	RoomID   *int64     `json:"room_id"`
	CheckIn  *time.Time `json:"check_in"`
	CheckOut *time.Time `json:"check_out"`
	Guests   int        `json:"guests"`
	FlightID *int64     `json:"flight_id"`
	Seats    int        `json:"seats"`
}

type BookingServiceOption func(*BookingService)

func WithCache(cache FlightsCache) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
	}
}

func WithEvents(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingTopic = topic
	}
}

func WithNotifier(notifier notify.Dispatcher) BookingServiceOption {
	return func(s *BookingService) {
		s.notifier = notifier
	}
}

func WithClock(clk clock.Clock) BookingServiceOption {
	return func(s *BookingService) {
		s.clock = clk
	}
}

func WithLogger(log logging.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.log = log
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	rooms repository.RoomRepository,
	users repository.UserRepository,
	activity repository.ActivityRepository,
	holdTTL time.Duration,
	defaultCurrency string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:        bookings,
		flights:         flights,
		rooms:           rooms,
		users:           users,
		activity:        activity,
		clock:           clock.Real(),
		log:             logging.Nop(),
		holdTTL:         holdTTL,
		defaultCurrency: defaultCurrency,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (in CreateBookingInput) validate() error {
	v := &apperr.ValidationError{}
	hotel := in.HotelID != nil || in.RoomID != nil
	flight := in.FlightID != nil

	switch {
	case hotel && flight:
		v.Add("booking", "book either a hotel room or a flight, not both")
	case flight:
		if in.Seats < 1 {
			v.Add("seats", "must be at least 1")
		}
	case hotel:
		if in.HotelID == nil {
			v.Add("hotel_id", "hotel_id is required")
		}
		if in.RoomID == nil {
			v.Add("room_id", "room_id is required")
		}
		if in.CheckIn == nil {
			v.Add("check_in", "check_in is required")
		}
		if in.CheckOut == nil {
			v.Add("check_out", "check_out is required")
		}
		if in.CheckIn != nil && in.CheckOut != nil && !truncateDay(*in.CheckOut).After(truncateDay(*in.CheckIn)) {
			v.Add("check_out", "must be after check_in")
		}
		if in.Guests < 1 {
			v.Add("guests", "must be at least 1")
		}
	default:
		v.Add("booking", "hotel_id and room_id or flight_id is required")
	}
	return v.OrNil()
}

func (s *BookingService) currency(c string) string {
	if len(c) == 3 {
		return c
	}
	return s.defaultCurrency
}

// CreateBooking books a hotel stay (confirmed immediately) or flight seats
// (held as pending until the hold expires).
func (s *BookingService) CreateBooking(ctx context.Context, user *domain.User, input CreateBookingInput) (*domain.Booking, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		Reference: uuid.NewString(),
		UserID:    user.ID,
		Payment:   domain.PaymentStatusUnpaid,
	}

	if input.FlightID != nil {
		flight, err := s.flights.GetByID(ctx, *input.FlightID)
		if err != nil {
			return nil, err
		}
		expiresAt := s.clock.Now().Add(s.holdTTL)
		booking.FlightID = input.FlightID
		booking.Seats = input.Seats
		booking.TotalCents = flight.PriceCents * int64(input.Seats)
		booking.Currency = s.currency(flight.Currency)
		booking.Status = domain.BookingStatusPending
		booking.ExpiresAt = &expiresAt
	} else {
		room, err := s.rooms.GetRoom(ctx, *input.HotelID, *input.RoomID)
		if err != nil {
			return nil, err
		}
		if input.Guests > room.Capacity {
			return nil, apperr.NewValidation("guests", fmt.Sprintf("room fits at most %d guests", room.Capacity))
		}
		checkIn, checkOut := truncateDay(*input.CheckIn), truncateDay(*input.CheckOut)
		nights := int64(checkOut.Sub(checkIn).Hours() / 24)
		booking.HotelID = input.HotelID
		booking.RoomID = input.RoomID
		booking.CheckIn = &checkIn
		booking.CheckOut = &checkOut
		booking.Guests = input.Guests
		booking.TotalCents = room.NightlyPriceCents * nights
		booking.Currency = s.currency(room.Currency)
		booking.Status = domain.BookingStatusConfirmed
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}
	if booking.IsFlight() {
		s.invalidateFlights(ctx)
	}

	s.publish(ctx, domain.NotificationBookingCreated, booking, user)
	return booking, nil
}

func (s *BookingService) ListMyBookings(ctx context.Context, user *domain.User) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, user.ID)
}

// CancelBooking cancels a booking owned by user. Bookings of other users are
// reported as apperr.ErrNotFound.
func (s *BookingService) CancelBooking(ctx context.Context, id int64, user *domain.User) (*domain.Booking, error) {
	updated, err := s.bookings.Cancel(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}
	if updated.IsFlight() {
		s.invalidateFlights(ctx)
	}

	s.publish(ctx, domain.NotificationBookingCancelled, updated, user)
	return updated, nil
}

// UpdateStatus lets an administrator set any status. Transitions are not
// checked, so cancelled -> confirmed is accepted.
func (s *BookingService) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, admin *domain.User) (*domain.Booking, error) {
	if admin == nil || admin.Role != domain.RoleAdmin {
		return nil, apperr.ErrForbidden
	}
	if !status.Valid() {
		return nil, apperr.NewValidation("status", "must be one of pending, confirmed, cancelled, expired")
	}

	updated, err := s.bookings.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if updated.IsFlight() {
		s.invalidateFlights(ctx)
	}

	if err := s.activity.Append(ctx, &domain.ActivityLog{
		ActorID:  admin.ID,
		Action:   domain.ActivityBookingStatusUpdated,
		Metadata: map[string]any{"booking_id": updated.ID, "status": string(status)},
	}); err != nil {
		s.log.Error(ctx, "failed to append activity", "booking_id", updated.ID, "error", err)
	}

	s.publish(ctx, domain.NotificationBookingUpdated, updated, nil)
	return updated, nil
}

func (s *BookingService) ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error) {
	expired, err := s.bookings.ExpirePendingBefore(ctx, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if len(expired) > 0 {
		s.invalidateFlights(ctx)
	}
	for i := range expired {
		s.publish(ctx, domain.NotificationBookingExpired, &expired[i], nil)
	}
	return expired, nil
}

func (s *BookingService) invalidateFlights(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.Warn(ctx, "failed to invalidate flights cache", "error", err)
	}
}

// publish emits the booking event and the owner's notification. Failures are
// logged; the booking change has already been committed.
func (s *BookingService) publish(ctx context.Context, kind domain.NotificationKind, booking *domain.Booking, owner *domain.User) {
	if s.producer != nil && s.bookingTopic != "" {
		event := kafka.NewBookingEvent(string(kind), booking)
		if err := s.producer.Publish(ctx, s.bookingTopic, booking.Reference, event); err != nil {
			s.log.Warn(ctx, "failed to publish booking event", "type", kind, "booking_id", booking.ID, "error", err)
		}
	}

	if s.notifier == nil {
		return
	}
	if owner == nil {
		u, err := s.users.GetByID(ctx, booking.UserID)
		if err != nil {
			if !errors.Is(err, apperr.ErrNotFound) {
				s.log.Warn(ctx, "failed to load booking owner", "booking_id", booking.ID, "error", err)
			}
			return
		}
		owner = u
	}

	data := map[string]string{
		"reference": booking.Reference,
		"status":    string(booking.Status),
		"total":     formatCents(booking.TotalCents),
		"currency":  booking.Currency,
	}
	if booking.ExpiresAt != nil && booking.Status == domain.BookingStatusPending {
		data["expires_at"] = booking.ExpiresAt.UTC().Format(time.RFC1123)
	}
	if err := s.notifier.Send(ctx, domain.Notification{Recipient: owner.Email, UserName: owner.Name, Kind: kind, Data: data}); err != nil {
		s.log.Warn(ctx, "failed to send booking notification", "type", kind, "booking_id", booking.ID, "error", err)
	}
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	frac := strconv.FormatInt(cents%100, 10)
	if len(frac) == 1 {
		frac = "0" + frac
	}
	return sign + strconv.FormatInt(cents/100, 10) + "." + frac
}

var _ BookingUseCase = (*BookingService)(nil)
