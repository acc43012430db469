package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/travelease/internal/apperr"
	"github.com/Domenick1991/travelease/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

// createBookingRequest carries either a hotel stay or a flight purchase.
// Dates are calendar days.
type createBookingRequest struct {
	HotelID  *int64 `json:"hotel_id"`
	RoomID   *int64 `json:"room_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Guests   int    `json:"guests"`
	FlightID *int64 `json:"flight_id"`
	Seats    int    `json:"seats"`
}

func (r createBookingRequest) toInput() (booking.CreateBookingInput, error) {
	in := booking.CreateBookingInput{
		HotelID:  r.HotelID,
		RoomID:   r.RoomID,
		Guests:   r.Guests,
		FlightID: r.FlightID,
		Seats:    r.Seats,
	}
	v := &apperr.ValidationError{}
	in.CheckIn = parseDate(v, "check_in", r.CheckIn)
	in.CheckOut = parseDate(v, "check_out", r.CheckOut)
	return in, v.OrNil()
}

func parseDate(v *apperr.ValidationError, field, raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		v.Add(field, "must be formatted as YYYY-MM-DD")
		return nil
	}
	return &t
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

// Register expects router to be guarded by the authenticator.
func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.POST("/:id/cancel", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeError(c, err)
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), currentUser(c), input)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, newBookingResponse(created))
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.service.ListMyBookings(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, newBookingsResponse(bookings))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	cancelled, err := h.service.CancelBooking(c.Request.Context(), id, currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, newBookingResponse(cancelled))
}
