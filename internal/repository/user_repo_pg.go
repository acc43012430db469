package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/travelease/internal/apperr"
	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// UserRepository only ever returns live users; soft-deleted rows behave as
// missing. Role, host status and deletion changes take the activity entry
// that records them and write both in one transaction.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	MarkEmailVerified(ctx context.Context, id int64, at time.Time) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateRole(ctx context.Context, id int64, role domain.Role, hostStatus domain.HostStatus, entry *domain.ActivityLog) (*domain.User, error)
	UpdateHostStatus(ctx context.Context, id int64, hostStatus domain.HostStatus, entry *domain.ActivityLog) (*domain.User, error)
	SoftDelete(ctx context.Context, id int64, at time.Time, entry *domain.ActivityLog) error
	CountByRole(ctx context.Context) (map[domain.Role]int64, error)
}

type PGUserRepository struct {
	db DB
}

func NewUserRepository(db DB) UserRepository {
	return &PGUserRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, host_status, email_verified_at, deleted_at, created_at, updated_at`

func scanUser(row scanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.HostStatus, &u.EmailVerifiedAt, &u.DeletedAt, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *PGUserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.QueryRow(ctx, `INSERT INTO users (name, email, password_hash, role, host_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		user.Name, user.Email, user.PasswordHash, user.Role, user.HostStatus).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *PGUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1 AND deleted_at IS NULL`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *PGUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1 AND deleted_at IS NULL`, email))
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *PGUserRepository) exec(ctx context.Context, sql string, args ...any) error {
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *PGUserRepository) MarkEmailVerified(ctx context.Context, id int64, at time.Time) error {
	return r.exec(ctx, `UPDATE users SET email_verified_at=$2, updated_at=now() WHERE id=$1 AND deleted_at IS NULL`, id, at)
}

func (r *PGUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.exec(ctx, `UPDATE users SET password_hash=$2, updated_at=now() WHERE id=$1 AND deleted_at IS NULL`, id, passwordHash)
}

// updateWithActivity applies a single-row user update and appends entry
// (when set) atomically.
func (r *PGUserRepository) updateWithActivity(ctx context.Context, entry *domain.ActivityLog, sql string, args ...any) (*domain.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	u, err := scanUser(tx.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err)
	}
	if entry != nil {
		if err := insertActivity(ctx, tx, entry); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PGUserRepository) UpdateRole(ctx context.Context, id int64, role domain.Role, hostStatus domain.HostStatus, entry *domain.ActivityLog) (*domain.User, error) {
	return r.updateWithActivity(ctx, entry, `UPDATE users SET role=$2, host_status=$3, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL RETURNING `+userColumns, id, role, hostStatus)
}

func (r *PGUserRepository) UpdateHostStatus(ctx context.Context, id int64, hostStatus domain.HostStatus, entry *domain.ActivityLog) (*domain.User, error) {
	return r.updateWithActivity(ctx, entry, `UPDATE users SET host_status=$2, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL RETURNING `+userColumns, id, hostStatus)
}

func (r *PGUserRepository) SoftDelete(ctx context.Context, id int64, at time.Time, entry *domain.ActivityLog) error {
	_, err := r.updateWithActivity(ctx, entry, `UPDATE users SET deleted_at=$2, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL RETURNING `+userColumns, id, at)
	return err
}

func (r *PGUserRepository) CountByRole(ctx context.Context) (map[domain.Role]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT role, count(*) FROM users WHERE deleted_at IS NULL GROUP BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.Role]int64)
	for rows.Next() {
		var role domain.Role
		var n int64
		if err := rows.Scan(&role, &n); err != nil {
			return nil, err
		}
		counts[role] = n
	}
	return counts, rows.Err()
}

var _ UserRepository = (*PGUserRepository)(nil)
