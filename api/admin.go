package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/travelease/internal/apperr"
	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/service/admin"
	"github.com/Domenick1991/travelease/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	admin    admin.AdminUseCase
	bookings booking.BookingUseCase
}

func NewAdminHandler(adminService admin.AdminUseCase, bookings booking.BookingUseCase) *AdminHandler {
	return &AdminHandler{admin: adminService, bookings: bookings}
}

// Register expects router to be guarded by the authenticator and an admin
// role check.
func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.PATCH("/bookings/:id/status", h.updateBookingStatus)
	router.PATCH("/users/:id/role", h.updateUserRole)
	router.POST("/host-applications/:id/decision", h.decideHostApplication)
	router.GET("/activity-logs", h.listActivity)
	router.GET("/stats", h.stats)
}

type updateBookingStatusRequest struct {
	Status domain.BookingStatus `json:"status" binding:"required"`
}

func (h *AdminHandler) updateBookingStatus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req updateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	updated, err := h.bookings.UpdateStatus(c.Request.Context(), id, req.Status, currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, newBookingResponse(updated))
}

type updateUserRoleRequest struct {
	Role       domain.Role        `json:"role" binding:"required"`
	HostStatus *domain.HostStatus `json:"host_status"`
}

func (h *AdminHandler) updateUserRole(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req updateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	user, err := h.admin.UpdateUserRole(c.Request.Context(), currentUser(c), admin.UpdateRoleInput{
		UserID:     id,
		Role:       req.Role,
		HostStatus: req.HostStatus,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, newUserResponse(user))
}

type hostDecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
}

func (h *AdminHandler) decideHostApplication(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req hostDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	user, err := h.admin.DecideHostApplication(c.Request.Context(), currentUser(c), id, req.Decision == "approve")
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, newUserResponse(user))
}

func queryInt(c *gin.Context, v *apperr.ValidationError, name string) int {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		v.Add(name, "must be a non-negative integer")
		return 0
	}
	return n
}

func (h *AdminHandler) listActivity(c *gin.Context) {
	v := &apperr.ValidationError{}
	limit := queryInt(c, v, "limit")
	offset := queryInt(c, v, "offset")
	if err := v.OrNil(); err != nil {
		writeError(c, err)
		return
	}

	logs, err := h.admin.ListActivity(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]activityResponse, 0, len(logs))
	for _, l := range logs {
		resp = append(resp, activityResponse{
			ID:        l.ID,
			ActorID:   l.ActorID,
			Action:    l.Action,
			Metadata:  l.Metadata,
			CreatedAt: l.CreatedAt,
		})
	}
	respond(c, http.StatusOK, resp)
}

func (h *AdminHandler) stats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, statsResponse{
		UsersByRole:      stats.UsersByRole,
		BookingsByStatus: stats.BookingsByStatus,
		RevenueCents:     stats.RevenueCents,
	})
}
