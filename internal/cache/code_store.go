package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/travelease/internal/apperr"
	"github.com/Domenick1991/travelease/internal/clock"
	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/redis/go-redis/v9"
)

// expiredRetention keeps a record readable briefly past its expiry so the
// OTP service observes and deletes it itself.
const expiredRetention = time.Minute

type storedCode struct {
	CodeHash  string    `json:"code_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisCodeStore keeps one key per (email, purpose); SET overwrites, so the
// last writer wins.
type RedisCodeStore struct {
	client redis.Cmdable
	clock  clock.Clock
}

func NewRedisCodeStore(client redis.Cmdable, clk clock.Clock) *RedisCodeStore {
	return &RedisCodeStore{client: client, clock: clk}
}

func (s *RedisCodeStore) Put(ctx context.Context, code *domain.VerificationCode) error {
	created := code.CreatedAt
	if created.IsZero() {
		created = s.clock.Now()
	}
	payload, err := json.Marshal(storedCode{CodeHash: code.CodeHash, ExpiresAt: code.ExpiresAt, CreatedAt: created})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, codeKey(code.Email, code.Purpose), payload, s.ttl(code.ExpiresAt)).Err()
}

func (s *RedisCodeStore) Latest(ctx context.Context, email string, purpose domain.Purpose) (*domain.VerificationCode, error) {
	data, err := s.client.Get(ctx, codeKey(email, purpose)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return decodeCode(email, purpose, data)
}

func (s *RedisCodeStore) Delete(ctx context.Context, email string, purpose domain.Purpose) error {
	return s.client.Del(ctx, codeKey(email, purpose)).Err()
}

func (s *RedisCodeStore) ttl(expiresAt time.Time) time.Duration {
	ttl := expiresAt.Sub(s.clock.Now())
	if ttl < 0 {
		ttl = 0
	}
	return ttl + expiredRetention
}

func decodeCode(email string, purpose domain.Purpose, data []byte) (*domain.VerificationCode, error) {
	var sc storedCode
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("decode code %s: %w", codeKey(email, purpose), err)
	}
	return &domain.VerificationCode{
		Email:     email,
		Purpose:   purpose,
		CodeHash:  sc.CodeHash,
		ExpiresAt: sc.ExpiresAt,
		CreatedAt: sc.CreatedAt,
	}, nil
}

func codeKey(email string, purpose domain.Purpose) string {
	return fmt.Sprintf("otp:%s:%s", purpose, email)
}
