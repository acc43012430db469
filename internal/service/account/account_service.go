package account

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Domenick1991/travelease/internal/apperr"
	"github.com/Domenick1991/travelease/internal/clock"
	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/logging"
	"github.com/Domenick1991/travelease/internal/repository"
	"github.com/Domenick1991/travelease/internal/service/otp"
)

type Status string

const (
	StatusAlreadyVerified      Status = "already-verified"
	StatusVerificationCodeSent Status = "verification-code-sent"
	StatusFailedToSend         Status = "failed-to-send"
	StatusVerified             Status = "verified"
	StatusResetCodeSent        Status = "reset-code-sent"
	StatusDeletionCodeSent     Status = "deletion-code-sent"
)

const (
	minPasswordLength = 8
	// bcrypt rejects longer input.
	maxPasswordBytes = 72
)

// ErrInvalidCode is returned for a wrong, expired or already used code.
var ErrInvalidCode error = apperr.NewValidation("code", "invalid or expired code")

type AccountUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterResult, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	IssueVerificationCode(ctx context.Context, user *domain.User) (Status, error)
	VerifyEmail(ctx context.Context, email, code string) (Status, error)
	IssuePasswordResetCode(ctx context.Context, email string) Status
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	RequestAccountDeletion(ctx context.Context, user *domain.User) (Status, error)
	ConfirmAccountDeletion(ctx context.Context, user *domain.User, code string) error
	ApplyForHost(ctx context.Context, user *domain.User) (*domain.User, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) (bool, error)
}

type TokenIssuer interface {
	GenerateToken(user *domain.User) (string, error)
}

type AccountService struct {
	users  repository.UserRepository
	otp    otp.OTPUseCase
	hasher PasswordHasher
	tokens TokenIssuer
	clock  clock.Clock
	log    logging.Logger
}

func NewAccountService(
	users repository.UserRepository,
	codes otp.OTPUseCase,
	hasher PasswordHasher,
	tokens TokenIssuer,
	clk clock.Clock,
	log logging.Logger,
) *AccountService {
	return &AccountService{
		users:  users,
		otp:    codes,
		hasher: hasher,
		tokens: tokens,
		clock:  clk,
		log:    log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type RegisterResult struct {
	User               *domain.User
	Token              string
	VerificationStatus Status
}

func validateEmail(v *apperr.ValidationError, email string) {
	if email == "" {
		v.Add("email", "email is required")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		v.Add("email", "email is invalid")
	}
}

func validatePassword(v *apperr.ValidationError, field, password string) {
	switch {
	case len(password) < minPasswordLength:
		v.Add(field, fmt.Sprintf("must be at least %d characters", minPasswordLength))
	case len(password) > maxPasswordBytes:
		v.Add(field, fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}
}

// Register creates a traveler account and sends an email verification code.
// A failed delivery is reported in the result, not as an error.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	name := strings.TrimSpace(input.Name)
	email := domain.NormalizeEmail(input.Email)

	v := &apperr.ValidationError{}
	if name == "" {
		v.Add("name", "name is required")
	}
	validateEmail(v, email)
	validatePassword(v, "password", input.Password)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleTraveler,
		HostStatus:   domain.HostStatusNotRegistered,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	status, err := s.IssueVerificationCode(ctx, user)
	if err != nil {
		s.log.Error(ctx, "verification code not issued", "user_id", user.ID, "error", err)
		status = StatusFailedToSend
	}
	return &RegisterResult{User: user, Token: token, VerificationStatus: status}, nil
}

// Login fails with ErrUnauthorized for unknown emails and wrong passwords alike.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", nil, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
		}
		return "", nil, err
	}
	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AccountService) IssueVerificationCode(ctx context.Context, user *domain.User) (Status, error) {
	if user.EmailVerified() {
		return StatusAlreadyVerified, nil
	}
	_, err := s.otp.Issue(ctx, otp.IssueRequest{Email: user.Email, Purpose: domain.PurposeEmailVerification, UserName: user.Name})
	if err != nil {
		if errors.Is(err, apperr.ErrDeliveryFailed) {
			return StatusFailedToSend, nil
		}
		return "", err
	}
	return StatusVerificationCodeSent, nil
}

func (s *AccountService) VerifyEmail(ctx context.Context, email, code string) (Status, error) {
	email = domain.NormalizeEmail(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", ErrInvalidCode
		}
		return "", err
	}
	if user.EmailVerified() {
		return StatusAlreadyVerified, nil
	}

	ok, err := s.otp.Validate(ctx, email, domain.PurposeEmailVerification, code)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrInvalidCode
	}
	if err := s.users.MarkEmailVerified(ctx, user.ID, s.clock.Now()); err != nil {
		return "", err
	}
	if err := s.otp.Consume(ctx, email, domain.PurposeEmailVerification); err != nil {
		return "", err
	}
	return StatusVerified, nil
}

// IssuePasswordResetCode always reports StatusResetCodeSent so callers cannot
// discover which emails are registered.
func (s *AccountService) IssuePasswordResetCode(ctx context.Context, email string) Status {
	email = domain.NormalizeEmail(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			s.log.Error(ctx, "password reset lookup failed", "error", err)
		}
		return StatusResetCodeSent
	}
	if _, err := s.otp.Issue(ctx, otp.IssueRequest{Email: email, Purpose: domain.PurposePasswordReset, UserName: user.Name}); err != nil {
		s.log.Error(ctx, "password reset code not sent", "user_id", user.ID, "error", err)
	}
	return StatusResetCodeSent
}

func (s *AccountService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = domain.NormalizeEmail(email)
	v := &apperr.ValidationError{}
	validatePassword(v, "password", newPassword)
	if err := v.OrNil(); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return ErrInvalidCode
		}
		return err
	}
	ok, err := s.otp.Validate(ctx, email, domain.PurposePasswordReset, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCode
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	return s.otp.Consume(ctx, email, domain.PurposePasswordReset)
}

// RequestAccountDeletion sends an account deletion code; delivery failure is
// returned as apperr.ErrDeliveryFailed.
func (s *AccountService) RequestAccountDeletion(ctx context.Context, user *domain.User) (Status, error) {
	if _, err := s.otp.Issue(ctx, otp.IssueRequest{Email: user.Email, Purpose: domain.PurposeAccountDeletion, UserName: user.Name}); err != nil {
		return "", err
	}
	return StatusDeletionCodeSent, nil
}

func (s *AccountService) ConfirmAccountDeletion(ctx context.Context, user *domain.User, code string) error {
	ok, err := s.otp.Validate(ctx, user.Email, domain.PurposeAccountDeletion, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCode
	}
	err = s.users.SoftDelete(ctx, user.ID, s.clock.Now(), &domain.ActivityLog{
		ActorID:  user.ID,
		Action:   domain.ActivityAccountDeleted,
		Metadata: map[string]any{"user_id": user.ID},
	})
	if err != nil {
		return err
	}
	return s.otp.Consume(ctx, user.Email, domain.PurposeAccountDeletion)
}

// ApplyForHost moves a not_registered or rejected user to pending.
func (s *AccountService) ApplyForHost(ctx context.Context, user *domain.User) (*domain.User, error) {
	switch user.HostStatus {
	case domain.HostStatusNotRegistered, domain.HostStatusRejected:
	default:
		return nil, fmt.Errorf("%w: host status is %s", apperr.ErrConflict, user.HostStatus)
	}

	return s.users.UpdateHostStatus(ctx, user.ID, domain.HostStatusPending, &domain.ActivityLog{
		ActorID:  user.ID,
		Action:   domain.ActivityHostApplicationSubmitted,
		Metadata: map[string]any{"user_id": user.ID, "previous_host_status": string(user.HostStatus)},
	})
}

var _ AccountUseCase = (*AccountService)(nil)
