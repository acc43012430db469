package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/travelease/internal/apperr"
	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	now := time.Now()
	conn := &fakeConn{rows: []pgx.Row{valuesRow(int64(5), now, now)}}
	u := &domain.User{Name: "A", Email: "a@x.com", PasswordHash: "h", Role: domain.RoleTraveler, HostStatus: domain.HostStatusNotRegistered}

	require.NoError(t, NewUserRepository(conn).Create(context.Background(), u))
	assert.Equal(t, int64(5), u.ID)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	conn := &fakeConn{rows: []pgx.Row{errRow(&pgconn.PgError{Code: "23505"})}}
	err := NewUserRepository(conn).Create(context.Background(), &domain.User{Email: "a@x.com"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	conn := &fakeConn{}
	_, err := NewUserRepository(conn).GetByEmail(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Contains(t, conn.queries[0], "deleted_at IS NULL")
}

func TestUserRepository_SoftDelete_Missing(t *testing.T) {
	conn := &fakeConn{}
	err := NewUserRepository(conn).SoftDelete(context.Background(), 1, time.Now(), &domain.ActivityLog{ActorID: 1, Action: domain.ActivityAccountDeleted})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Len(t, conn.queries, 1)
	assert.True(t, conn.rolledBack)
}

func userRow(role domain.Role, hs domain.HostStatus) fakeRow {
	now := time.Now()
	return valuesRow(int64(5), "A", "a@x.com", "h", role, hs, (*time.Time)(nil), (*time.Time)(nil), now, now)
}

func TestUserRepository_UpdateRole(t *testing.T) {
	conn := &fakeConn{rows: []pgx.Row{userRow(domain.RoleHost, domain.HostStatusApproved), valuesRow(int64(1), time.Now())}}
	entry := &domain.ActivityLog{ActorID: 1, Action: domain.ActivityUserRoleUpdated}

	u, err := NewUserRepository(conn).UpdateRole(context.Background(), 5, domain.RoleHost, domain.HostStatusApproved, entry)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleHost, u.Role)
	assert.Equal(t, []any{int64(5), domain.RoleHost, domain.HostStatusApproved}, conn.queryArgs[0])
	assert.Contains(t, conn.queries[1], "INSERT INTO activity_logs")
	assert.Equal(t, int64(1), entry.ID)
	assert.True(t, conn.committed)
}

func TestUserRepository_UpdateRole_ActivityFailureRollsBack(t *testing.T) {
	conn := &fakeConn{rows: []pgx.Row{userRow(domain.RoleHost, domain.HostStatusApproved), errRow(errors.New("activity_logs: disk full"))}}
	entry := &domain.ActivityLog{ActorID: 1, Action: domain.ActivityUserRoleUpdated}

	u, err := NewUserRepository(conn).UpdateRole(context.Background(), 5, domain.RoleHost, domain.HostStatusApproved, entry)
	assert.ErrorContains(t, err, "disk full")
	assert.Nil(t, u)
	assert.False(t, conn.committed)
	assert.True(t, conn.rolledBack)
}

func TestUserRepository_UpdateHostStatus_WithoutEntry(t *testing.T) {
	conn := &fakeConn{rows: []pgx.Row{userRow(domain.RoleTraveler, domain.HostStatusPending)}}

	u, err := NewUserRepository(conn).UpdateHostStatus(context.Background(), 5, domain.HostStatusPending, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.HostStatusPending, u.HostStatus)
	assert.Len(t, conn.queries, 1)
	assert.True(t, conn.committed)
}

func TestActivityRepository_Append(t *testing.T) {
	now := time.Now()
	conn := &fakeConn{rows: []pgx.Row{valuesRow(int64(1), now)}}
	entry := &domain.ActivityLog{ActorID: 2, Action: domain.ActivityUserRoleUpdated, Metadata: map[string]any{"role": "host"}}

	require.NoError(t, NewActivityRepository(conn).Append(context.Background(), entry))
	assert.Equal(t, int64(1), entry.ID)
	assert.JSONEq(t, `{"role":"host"}`, string(conn.queryArgs[0][2].([]byte)))
}
