package repository

import (
	"context"
	"sync"

	"github.com/Domenick1991/travelease/internal/apperr"
	"github.com/Domenick1991/travelease/internal/domain"
)

type codeKey struct {
	email   string
	purpose domain.Purpose
}

// MemoryCodeStore keeps codes in process memory. It backs local development
// (otp.store: memory) and tests.
type MemoryCodeStore struct {
	mu    sync.Mutex
	codes map[codeKey][]domain.VerificationCode
}

func NewMemoryCodeStore() *MemoryCodeStore {
	return &MemoryCodeStore{codes: make(map[codeKey][]domain.VerificationCode)}
}

func (s *MemoryCodeStore) Put(_ context.Context, code *domain.VerificationCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[codeKey{code.Email, code.Purpose}] = []domain.VerificationCode{*code}
	return nil
}

func (s *MemoryCodeStore) Latest(_ context.Context, email string, purpose domain.Purpose) (*domain.VerificationCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.codes[codeKey{email, purpose}]
	if len(records) == 0 {
		return nil, apperr.ErrNotFound
	}
	latest := records[0]
	for _, r := range records[1:] {
		if r.ExpiresAt.After(latest.ExpiresAt) {
			latest = r
		}
	}
	return &latest, nil
}

func (s *MemoryCodeStore) Delete(_ context.Context, email string, purpose domain.Purpose) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, codeKey{email, purpose})
	return nil
}

// append adds a record without clearing the key. Tests use it to model
// duplicate rows.
func (s *MemoryCodeStore) append(code domain.VerificationCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := codeKey{code.Email, code.Purpose}
	s.codes[k] = append(s.codes[k], code)
}

var _ CodeStore = (*MemoryCodeStore)(nil)
