package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastygo/users/domain"
	"github.com/fastygo/users/repository"
)

type cachedUserRepository struct {
	next   repository.UserRepository
	client redislib.UniversalClient
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedUserRepository wraps next with a read-through Redis cache for single-user lookups.
// Writes go to next first and then evict the cached entry. Cache failures are logged and
// never surface to callers.
func NewCachedUserRepository(next repository.UserRepository, client redislib.UniversalClient, ttl time.Duration, logger *zap.Logger) repository.UserRepository {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedUserRepository{
		next:   next,
		client: client,
		prefix: "user:",
		ttl:    ttl,
		logger: logger,
	}
}

func (r *cachedUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	created, err := r.next.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	r.store(ctx, created)
	return created, nil
}

func (r *cachedUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	result, err := r.client.Get(ctx, r.key(id)).Bytes()
	switch {
	case err == nil:
		var user domain.User
		if jsonErr := json.Unmarshal(result, &user); jsonErr == nil {
			return &user, nil
		}
		r.evict(ctx, id)
	case !errors.Is(err, redislib.Nil):
		r.logger.Warn("user cache read failed", zap.Int64("user_id", id), zap.Error(err))
	}

	user, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, user)
	return user, nil
}

func (r *cachedUserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.next.List(ctx)
}

func (r *cachedUserRepository) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	r.evict(ctx, id)
	updated, err := r.next.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	r.evict(ctx, id)
	return updated, nil
}

func (r *cachedUserRepository) Delete(ctx context.Context, id int64) (*domain.User, error) {
	deleted, err := r.next.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	r.evict(ctx, id)
	return deleted, nil
}

// Ping checks the underlying store; cache health is reported separately by the monitor.
func (r *cachedUserRepository) Ping(ctx context.Context) error {
	if p, ok := r.next.(repository.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (r *cachedUserRepository) store(ctx context.Context, user *domain.User) {
	if user == nil {
		return
	}
	payload, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, r.key(user.ID), payload, r.ttl).Err(); err != nil {
		r.logger.Warn("user cache write failed", zap.Int64("user_id", user.ID), zap.Error(err))
	}
}

func (r *cachedUserRepository) evict(ctx context.Context, id int64) {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		r.logger.Warn("user cache eviction failed", zap.Int64("user_id", id), zap.Error(err))
	}
}

func (r *cachedUserRepository) key(id int64) string {
	return fmt.Sprintf("%s%d", r.prefix, id)
}
