package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/ordering-service/internal/domain"
)

const userCachePrefix = "user:"

// cachedUser is what goes to Redis; the password digest never does.
type cachedUser struct {
	ID        string      `json:"id"`
	Nickname  string      `json:"nickname"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// CachedUserRepository serves GetByID from Redis and falls back to the
// wrapped repository. Users returned from the cache carry no PasswordHash,
// so credential checks must go through GetByNickname.
type CachedUserRepository struct {
	UserRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedUserRepository wraps next. A nil client or non-positive ttl
// disables caching.
func NewCachedUserRepository(next UserRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedUserRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedUserRepository{UserRepository: next, client: client, ttl: ttl, logger: logger}
}

func (r *CachedUserRepository) enabled() bool {
	return r.client != nil && r.ttl > 0
}

// GetByID returns the user, consulting the cache first.
func (r *CachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !r.enabled() {
		return r.UserRepository.GetByID(ctx, id)
	}

	raw, err := r.client.Get(ctx, userCachePrefix+id).Bytes()
	switch {
	case err == nil:
		var cu cachedUser
		if jsonErr := json.Unmarshal(raw, &cu); jsonErr == nil {
			return &domain.User{
				ID:        cu.ID,
				Nickname:  cu.Nickname,
				Role:      cu.Role,
				CreatedAt: cu.CreatedAt,
				UpdatedAt: cu.UpdatedAt,
			}, nil
		}
		r.logger.Warn("discarding corrupt user cache entry", zap.String("user_id", id))
	case errors.Is(err, redis.Nil):
	default:
		r.logger.Warn("user cache read failed", zap.String("user_id", id), zap.Error(err))
	}

	user, err := r.UserRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, user)
	return user, nil
}

func (r *CachedUserRepository) store(ctx context.Context, user *domain.User) {
	data, err := json.Marshal(cachedUser{
		ID:        user.ID,
		Nickname:  user.Nickname,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, userCachePrefix+user.ID, data, r.ttl).Err(); err != nil {
		r.logger.Warn("user cache write failed", zap.String("user_id", user.ID), zap.Error(err))
	}
}
