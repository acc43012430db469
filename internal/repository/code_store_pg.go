package repository

import (
	"context"

	"github.com/Domenick1991/travelease/internal/domain"
)

type PGCodeStore struct {
	db DB
}

func NewCodeStore(db DB) CodeStore {
	return &PGCodeStore{db: db}
}

// Put upserts on the (email, purpose) primary key, so concurrent issuers
// leave exactly one row and the last writer wins.
func (s *PGCodeStore) Put(ctx context.Context, code *domain.VerificationCode) error {
	_, err := s.db.Exec(ctx, `INSERT INTO verification_codes (email, purpose, code_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (email, purpose) DO UPDATE
		SET code_hash = EXCLUDED.code_hash, expires_at = EXCLUDED.expires_at, created_at = EXCLUDED.created_at`,
		code.Email, code.Purpose, code.CodeHash, code.ExpiresAt)
	return err
}

func (s *PGCodeStore) Latest(ctx context.Context, email string, purpose domain.Purpose) (*domain.VerificationCode, error) {
	row := s.db.QueryRow(ctx, `SELECT email, purpose, code_hash, expires_at, created_at FROM verification_codes
		WHERE email=$1 AND purpose=$2 ORDER BY expires_at DESC LIMIT 1`, email, purpose)
	var c domain.VerificationCode
	if err := row.Scan(&c.Email, &c.Purpose, &c.CodeHash, &c.ExpiresAt, &c.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *PGCodeStore) Delete(ctx context.Context, email string, purpose domain.Purpose) error {
	_, err := s.db.Exec(ctx, `DELETE FROM verification_codes WHERE email=$1 AND purpose=$2`, email, purpose)
	return err
}

var _ CodeStore = (*PGCodeStore)(nil)
