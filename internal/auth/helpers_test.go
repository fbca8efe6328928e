package auth

import (
	"context"
	"encoding/base64"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ordering-service/internal/domain"
)

const (
	testAccessSecret  = "test-access-secret"
	testRefreshSecret = "test-refresh-secret"
)

// fakeClock is a settable time source shared by issuer and verifier.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestManager(t *testing.T, clock *fakeClock) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(testAccessSecret, testRefreshSecret, 50*time.Minute, 24*time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	return tm
}

// flipSignatureBit alters one bit of the decoded signature bytes.
func flipSignatureBit(t *testing.T, token string) string {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)
	sig[0] ^= 0x01
	parts[2] = base64.RawURLEncoding.EncodeToString(sig)
	return strings.Join(parts, ".")
}

// flipPaddingBit changes an unused trailing bit of the encoded signature,
// leaving the decoded signature bytes untouched under lenient decoding.
func flipPaddingBit(t *testing.T, token string) string {
	t.Helper()
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := parts[2]
	idx := strings.IndexByte(alphabet, sig[len(sig)-1])
	require.GreaterOrEqual(t, idx, 0)
	parts[2] = sig[:len(sig)-1] + string(alphabet[idx^0x01])
	return strings.Join(parts, ".")
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
	calls int
}

func newFakeUsers(users ...*domain.User) *fakeUsers {
	f := &fakeUsers{users: map[string]*domain.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
