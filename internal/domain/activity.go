package domain

import "time"

type ActivityAction string

const (
	ActivityUserRoleUpdated          ActivityAction = "user_role_updated"
	ActivityHostApplicationSubmitted ActivityAction = "host_application_submitted"
	ActivityHostApplicationApproved  ActivityAction = "host_application_approved"
	ActivityHostApplicationRejected  ActivityAction = "host_application_rejected"
	ActivityBookingStatusUpdated     ActivityAction = "booking_status_updated"
	ActivityAccountDeleted           ActivityAction = "account_deleted"
)

// ActivityLog entries are append-only.
type ActivityLog struct {
	ID        int64
	ActorID   int64
	Action    ActivityAction
	Metadata  map[string]any
	CreatedAt time.Time
}

type Stats struct {
	UsersByRole      map[Role]int64
	BookingsByStatus map[BookingStatus]int64
	// RevenueCents sums confirmed bookings per currency.
	RevenueCents map[string]int64
}
