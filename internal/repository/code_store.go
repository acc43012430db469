package repository

import (
	"context"

	"github.com/Domenick1991/travelease/internal/domain"
)

// CodeStore persists hashed one-time codes keyed by (email, purpose). One
// store serves every purpose.
type CodeStore interface {
	// Put replaces any existing record for the code's (email, purpose).
	Put(ctx context.Context, code *domain.VerificationCode) error
	// Latest returns the record with the latest expiry, or apperr.ErrNotFound.
	Latest(ctx context.Context, email string, purpose domain.Purpose) (*domain.VerificationCode, error)
	// Delete removes every record for (email, purpose).
	Delete(ctx context.Context, email string, purpose domain.Purpose) error
}
