// Package otp issues and validates one-time numeric codes. Codes are scoped
// by (email, purpose), stored only as bcrypt hashes and delivered through a
// notify.Dispatcher.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/Domenick1991/travelease/internal/apperr"
	"github.com/Domenick1991/travelease/internal/clock"
	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/logging"
	"github.com/Domenick1991/travelease/internal/notify"
	"github.com/Domenick1991/travelease/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const DefaultCodeLength = 6

type OTPUseCase interface {
	Issue(ctx context.Context, req IssueRequest) (string, error)
	Validate(ctx context.Context, email string, purpose domain.Purpose, code string) (bool, error)
	Consume(ctx context.Context, email string, purpose domain.Purpose) error
}

type Config struct {
	CodeLength int
	HashCost   int
	TTLs       map[domain.Purpose]time.Duration
}

type IssueRequest struct {
	Email    string
	Purpose  domain.Purpose
	UserName string
	// TTL overrides the purpose default when positive.
	TTL time.Duration
}

type Service struct {
	store      repository.CodeStore
	dispatcher notify.Dispatcher
	clock      clock.Clock
	log        logging.Logger
	codeLength int
	hashCost   int
	ttls       map[domain.Purpose]time.Duration
}

func NewService(store repository.CodeStore, dispatcher notify.Dispatcher, clk clock.Clock, log logging.Logger, cfg Config) *Service {
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = DefaultCodeLength
	}
	if cfg.HashCost < bcrypt.MinCost {
		cfg.HashCost = bcrypt.DefaultCost
	}
	return &Service{
		store:      store,
		dispatcher: dispatcher,
		clock:      clk,
		log:        log,
		codeLength: cfg.CodeLength,
		hashCost:   cfg.HashCost,
		ttls:       cfg.TTLs,
	}
}

// GenerateCode returns a uniformly random numeric code of the given length,
// left-padded with zeros.
func GenerateCode(length int) (string, error) {
	return generateCode(rand.Reader, length)
}

func generateCode(r io.Reader, length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", length)
	}
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(r, limit)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	digits := n.String()
	return strings.Repeat("0", length-len(digits)) + digits, nil
}

// TTL returns the configured lifetime for purpose.
func (s *Service) TTL(purpose domain.Purpose) time.Duration {
	return s.ttls[purpose]
}

// Issue replaces any code stored for (email, purpose) with a fresh one and
// sends it. The plaintext is returned even when delivery fails: the stored
// code stays valid and the error wraps apperr.ErrDeliveryFailed.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (string, error) {
	if !req.Purpose.Valid() {
		return "", apperr.NewValidation("purpose", "unknown purpose")
	}
	email := domain.NormalizeEmail(req.Email)
	if email == "" {
		return "", apperr.NewValidation("email", "email is required")
	}
	ttl := req.TTL
	if ttl <= 0 {
		ttl = s.ttls[req.Purpose]
	}
	if ttl <= 0 {
		return "", fmt.Errorf("no ttl configured for %s", req.Purpose)
	}

	code, err := GenerateCode(s.codeLength)
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash code: %w", err)
	}

	now := s.clock.Now()
	record := &domain.VerificationCode{
		Email:     email,
		Purpose:   req.Purpose,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := s.store.Put(ctx, record); err != nil {
		return "", fmt.Errorf("store code: %w", err)
	}

	err = s.dispatcher.Send(ctx, domain.Notification{
		Recipient:  email,
		UserName:   req.UserName,
		Kind:       domain.NotificationKindFor(req.Purpose),
		Code:       code,
		TTLMinutes: int(ttl / time.Minute),
	})
	if err != nil {
		s.log.Error(ctx, "code delivery failed", "email", email, "purpose", req.Purpose, "error", err)
		if !errors.Is(err, apperr.ErrDeliveryFailed) {
			err = fmt.Errorf("%w: %v", apperr.ErrDeliveryFailed, err)
		}
		return code, err
	}
	return code, nil
}

// Validate reports whether code matches the live code for (email, purpose).
// An expired code is deleted and reported as false. A match does not consume
// the code; call Consume once the guarded action has succeeded.
func (s *Service) Validate(ctx context.Context, email string, purpose domain.Purpose, code string) (bool, error) {
	email = domain.NormalizeEmail(email)
	record, err := s.store.Latest(ctx, email, purpose)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if record.ExpiredAt(s.clock.Now()) {
		if err := s.store.Delete(ctx, email, purpose); err != nil {
			return false, err
		}
		return false, nil
	}

	err = bcrypt.CompareHashAndPassword([]byte(record.CodeHash), []byte(code))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

func (s *Service) Consume(ctx context.Context, email string, purpose domain.Purpose) error {
	return s.store.Delete(ctx, domain.NormalizeEmail(email), purpose)
}

var _ OTPUseCase = (*Service)(nil)
