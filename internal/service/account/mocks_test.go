package account

import (
	"context"
	"time"

	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) MarkEmailVerified(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id int64, role domain.Role, hostStatus domain.HostStatus, entry *domain.ActivityLog) (*domain.User, error) {
	args := m.Called(ctx, id, role, hostStatus, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateHostStatus(ctx context.Context, id int64, hostStatus domain.HostStatus, entry *domain.ActivityLog) (*domain.User, error) {
	args := m.Called(ctx, id, hostStatus, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SoftDelete(ctx context.Context, id int64, at time.Time, entry *domain.ActivityLog) error {
	args := m.Called(ctx, id, at, entry)
	return args.Error(0)
}

func (m *MockUserRepository) CountByRole(ctx context.Context) (map[domain.Role]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[domain.Role]int64), args.Error(1)
}

// recordingDispatcher captures sent codes so tests can submit them.
type recordingDispatcher struct {
	err  error
	sent []domain.Notification
}

func (d *recordingDispatcher) Send(_ context.Context, n domain.Notification) error {
	d.sent = append(d.sent, n)
	return d.err
}

func (d *recordingDispatcher) last() domain.Notification {
	return d.sent[len(d.sent)-1]
}
