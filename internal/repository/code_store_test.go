package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/travelease/internal/apperr"
	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func code(email string, p domain.Purpose, hash string, exp time.Time) *domain.VerificationCode {
	return &domain.VerificationCode{Email: email, Purpose: p, CodeHash: hash, ExpiresAt: exp}
}

func TestMemoryCodeStore_PutReplaces(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCodeStore()
	exp := time.Now().Add(time.Minute)

	require.NoError(t, s.Put(ctx, code("a@x.com", domain.PurposeEmailVerification, "h1", exp)))
	require.NoError(t, s.Put(ctx, code("a@x.com", domain.PurposeEmailVerification, "h2", exp.Add(-time.Second))))

	got, err := s.Latest(ctx, "a@x.com", domain.PurposeEmailVerification)
	require.NoError(t, err)
	assert.Equal(t, "h2", got.CodeHash)
}

func TestMemoryCodeStore_PurposesAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCodeStore()
	require.NoError(t, s.Put(ctx, code("a@x.com", domain.PurposePasswordReset, "h", time.Now().Add(time.Minute))))

	_, err := s.Latest(ctx, "a@x.com", domain.PurposeEmailVerification)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, s.Delete(ctx, "a@x.com", domain.PurposeEmailVerification))
	_, err = s.Latest(ctx, "a@x.com", domain.PurposePasswordReset)
	assert.NoError(t, err)
}

func TestMemoryCodeStore_LatestPicksMaxExpiry(t *testing.T) {
	s := NewMemoryCodeStore()
	now := time.Now()
	s.append(*code("a@x.com", domain.PurposeAccountDeletion, "old", now.Add(time.Minute)))
	s.append(*code("a@x.com", domain.PurposeAccountDeletion, "new", now.Add(time.Hour)))
	s.append(*code("a@x.com", domain.PurposeAccountDeletion, "mid", now.Add(10*time.Minute)))

	got, err := s.Latest(context.Background(), "a@x.com", domain.PurposeAccountDeletion)
	require.NoError(t, err)
	assert.Equal(t, "new", got.CodeHash)

	require.NoError(t, s.Delete(context.Background(), "a@x.com", domain.PurposeAccountDeletion))
	_, err = s.Latest(context.Background(), "a@x.com", domain.PurposeAccountDeletion)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMemoryCodeStore_ConcurrentPutsLeaveOneRecord(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCodeStore()
	exp := time.Now().Add(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Put(ctx, code("a@x.com", domain.PurposeEmailVerification, "h", exp))
		}()
	}
	wg.Wait()

	assert.Len(t, s.codes[codeKey{"a@x.com", domain.PurposeEmailVerification}], 1)
}

func TestPGCodeStore_Put(t *testing.T) {
	conn := &fakeConn{}
	exp := time.Now()
	require.NoError(t, NewCodeStore(conn).Put(context.Background(), code("a@x.com", domain.PurposePasswordReset, "h", exp)))

	require.Len(t, conn.execs, 1)
	assert.Contains(t, conn.execs[0], "ON CONFLICT (email, purpose) DO UPDATE")
	assert.Equal(t, []any{"a@x.com", domain.PurposePasswordReset, "h", exp}, conn.execArgs[0])
}

func TestPGCodeStore_Latest(t *testing.T) {
	exp := time.Now()
	conn := &fakeConn{rows: []pgx.Row{valuesRow("a@x.com", domain.PurposePasswordReset, "h", exp, exp)}}
	got, err := NewCodeStore(conn).Latest(context.Background(), "a@x.com", domain.PurposePasswordReset)
	require.NoError(t, err)
	assert.Equal(t, "h", got.CodeHash)

	_, err = NewCodeStore(&fakeConn{}).Latest(context.Background(), "a@x.com", domain.PurposePasswordReset)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
