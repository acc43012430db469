package domain

import (
	"strings"
	"time"
)

// Purpose scopes a verification code; codes are never shared across purposes.
type Purpose string

const (
	PurposeEmailVerification Purpose = "email_verification"
	PurposePasswordReset     Purpose = "password_reset"
	PurposeAccountDeletion   Purpose = "account_deletion"
)

func (p Purpose) Valid() bool {
	switch p {
	case PurposeEmailVerification, PurposePasswordReset, PurposeAccountDeletion:
		return true
	}
	return false
}

// VerificationCode never holds the plaintext code.
type VerificationCode struct {
	Email     string
	Purpose   Purpose
	CodeHash  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// ExpiredAt reports whether the code is unusable at now. A code is invalid at
// and after its expiry instant.
func (c *VerificationCode) ExpiredAt(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
