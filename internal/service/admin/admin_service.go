package admin

import (
	"context"
	"fmt"

	"github.com/Domenick1991/travelease/internal/apperr"
	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/repository"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type AdminUseCase interface {
	UpdateUserRole(ctx context.Context, admin *domain.User, input UpdateRoleInput) (*domain.User, error)
	DecideHostApplication(ctx context.Context, admin *domain.User, userID int64, approve bool) (*domain.User, error)
	ListActivity(ctx context.Context, limit, offset int) ([]domain.ActivityLog, error)
	Stats(ctx context.Context) (*domain.Stats, error)
}

type AdminService struct {
	users    repository.UserRepository
	bookings repository.BookingRepository
	activity repository.ActivityRepository
}

func NewAdminService(users repository.UserRepository, bookings repository.BookingRepository, activity repository.ActivityRepository) *AdminService {
	return &AdminService{users: users, bookings: bookings, activity: activity}
}

type UpdateRoleInput struct {
	UserID     int64
	Role       domain.Role
	HostStatus *domain.HostStatus
}

func requireAdmin(u *domain.User) error {
	if u == nil || u.Role != domain.RoleAdmin {
		return apperr.ErrForbidden
	}
	return nil
}

// UpdateUserRole sets the role and resolves the host status with
// domain.ResolveHostStatus. The change and its activity entry are stored
// together or not at all.
func (s *AdminService) UpdateUserRole(ctx context.Context, admin *domain.User, input UpdateRoleInput) (*domain.User, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	v := &apperr.ValidationError{}
	if !input.Role.Valid() {
		v.Add("role", "must be one of admin, host, traveler")
	}
	if input.HostStatus != nil && !input.HostStatus.Valid() {
		v.Add("host_status", "must be one of not_registered, pending, approved, rejected")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	target, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	hostStatus := domain.ResolveHostStatus(target.HostStatus, input.Role, input.HostStatus)

	entry := &domain.ActivityLog{
		ActorID: admin.ID,
		Action:  domain.ActivityUserRoleUpdated,
		Metadata: map[string]any{
			"user_id":              target.ID,
			"previous_role":        string(target.Role),
			"role":                 string(input.Role),
			"previous_host_status": string(target.HostStatus),
			"host_status":          string(hostStatus),
		},
	}
	return s.users.UpdateRole(ctx, target.ID, input.Role, hostStatus, entry)
}

// DecideHostApplication approves (role host, status approved) or rejects
// (status rejected, role unchanged) a pending application.
func (s *AdminService) DecideHostApplication(ctx context.Context, admin *domain.User, userID int64, approve bool) (*domain.User, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if target.HostStatus != domain.HostStatusPending {
		return nil, fmt.Errorf("%w: no pending host application", apperr.ErrConflict)
	}

	if approve {
		return s.users.UpdateRole(ctx, userID, domain.RoleHost, domain.HostStatusApproved, &domain.ActivityLog{
			ActorID:  admin.ID,
			Action:   domain.ActivityHostApplicationApproved,
			Metadata: map[string]any{"user_id": userID, "role": string(domain.RoleHost)},
		})
	}
	return s.users.UpdateHostStatus(ctx, userID, domain.HostStatusRejected, &domain.ActivityLog{
		ActorID:  admin.ID,
		Action:   domain.ActivityHostApplicationRejected,
		Metadata: map[string]any{"user_id": userID, "role": string(target.Role)},
	})
}

func (s *AdminService) ListActivity(ctx context.Context, limit, offset int) ([]domain.ActivityLog, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.activity.List(ctx, limit, offset)
}

func (s *AdminService) Stats(ctx context.Context) (*domain.Stats, error) {
	users, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.bookings.RevenueByCurrency(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Stats{UsersByRole: users, BookingsByStatus: bookings, RevenueCents: revenue}, nil
}

var _ AdminUseCase = (*AdminService)(nil)
