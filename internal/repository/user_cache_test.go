package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ordering-service/internal/domain"
)

type countingUsers struct {
	users map[string]*domain.User
	calls int
}

func (c *countingUsers) Create(_ context.Context, u *domain.User) error {
	c.users[u.ID] = u
	return nil
}

func (c *countingUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	c.calls++
	u, ok := c.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (c *countingUsers) GetByNickname(_ context.Context, nickname string) (*domain.User, error) {
	for _, u := range c.users {
		if u.Nickname == nickname {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func newCacheFixture(t *testing.T) (*miniredis.Miniredis, *countingUsers, *CachedUserRepository) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	backing := &countingUsers{users: map[string]*domain.User{
		"u-1": {ID: "u-1", Nickname: "alice123", PasswordHash: "digest", Role: domain.RoleCustomer},
	}}
	return srv, backing, NewCachedUserRepository(backing, client, time.Minute, nil)
}

func TestCachedUserRepositoryCachesLookups(t *testing.T) {
	srv, backing, repo := newCacheFixture(t)
	ctx := context.Background()

	first, err := repo.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "digest", first.PasswordHash)
	assert.True(t, srv.Exists("user:u-1"))

	second, err := repo.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "alice123", second.Nickname)
	assert.Equal(t, domain.RoleCustomer, second.Role)
	assert.Empty(t, second.PasswordHash)
	assert.Equal(t, 1, backing.calls)

	cached, err := srv.Get("user:u-1")
	require.NoError(t, err)
	assert.NotContains(t, cached, "digest")
}

func TestCachedUserRepositoryExpires(t *testing.T) {
	srv, backing, repo := newCacheFixture(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "u-1")
	require.NoError(t, err)
	srv.FastForward(2 * time.Minute)

	_, err = repo.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 2, backing.calls)
}

func TestCachedUserRepositoryMissPassesThroughNotFound(t *testing.T) {
	srv, _, repo := newCacheFixture(t)

	_, err := repo.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.False(t, srv.Exists("user:ghost"))
}

func TestCachedUserRepositoryRedisDown(t *testing.T) {
	srv, backing, repo := newCacheFixture(t)
	srv.Close()

	user, err := repo.GetByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, 1, backing.calls)
}

func TestCachedUserRepositoryDisabled(t *testing.T) {
	backing := &countingUsers{users: map[string]*domain.User{"u-1": {ID: "u-1"}}}
	repo := NewCachedUserRepository(backing, nil, time.Minute, nil)

	_, err := repo.GetByID(context.Background(), "u-1")
	require.NoError(t, err)
	_, err = repo.GetByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, 2, backing.calls)
}
