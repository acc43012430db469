package domain

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHost     Role = "host"
	RoleTraveler Role = "traveler"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHost, RoleTraveler:
		return true
	}
	return false
}

type HostStatus string

const (
	HostStatusNotRegistered HostStatus = "not_registered"
	HostStatusPending       HostStatus = "pending"
	HostStatusApproved      HostStatus = "approved"
	HostStatusRejected      HostStatus = "rejected"
)

func (s HostStatus) Valid() bool {
	switch s {
	case HostStatusNotRegistered, HostStatusPending, HostStatusApproved, HostStatusRejected:
		return true
	}
	return false
}

type User struct {
	ID              int64
	Name            string
	Email           string
	PasswordHash    string
	Role            Role
	HostStatus      HostStatus
	EmailVerifiedAt *time.Time
	DeletedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (u *User) EmailVerified() bool {
	return u.EmailVerifiedAt != nil
}

// ResolveHostStatus applies the host status default used when an admin
// changes a user's role. An explicit status always wins. Without one, a new
// host is approved, and a user leaving the host role is reset to
// not_registered only when currently approved so pending and rejected
// histories survive unrelated role changes.
func ResolveHostStatus(current HostStatus, role Role, requested *HostStatus) HostStatus {
	if requested != nil {
		return *requested
	}
	if role == RoleHost {
		return HostStatusApproved
	}
	if current == HostStatusApproved {
		return HostStatusNotRegistered
	}
	return current
}
