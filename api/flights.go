package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/travelease/internal/apperr"
	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
}

func (h *FlightHandler) list(c *gin.Context) {
	filter := domain.FlightFilter{
		FromAirport: c.Query("from"),
		ToAirport:   c.Query("to"),
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeError(c, apperr.NewValidation("date", "must be formatted as YYYY-MM-DD"))
			return
		}
		filter.DepartureDate = &date
	}

	found, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]flightResponse, 0, len(found))
	for i := range found {
		resp = append(resp, newFlightResponse(&found[i]))
	}
	respond(c, http.StatusOK, resp)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, newFlightResponse(flight))
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NewValidation("id", "must be a positive integer")
	}
	return id, nil
}
