// Package cache wraps a UserRepository with a read-through cache of users by id.
package cache

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-account-service/internal/domain/entity"
	"github.com/oksasatya/user-account-service/internal/domain/projection"
	"github.com/oksasatya/user-account-service/internal/domain/repository"
)

const keyPrefix = "user:"

// Store is the subset of a JSON key-value cache the decorator needs.
type Store interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// cachedPolicy is what gets stored: everything except the hash.
var cachedPolicy = projection.All().With(projection.FieldPassword, false)

// UserRepository caches GetByID. Reads that need the password hash, or whose
// context is marked with repository.SkipCache, go to the inner repository.
// Cache errors are logged and never surface.
type UserRepository struct {
	inner  repository.UserRepository
	store  Store
	ttl    time.Duration
	logger *logrus.Logger
}

func NewUserRepository(inner repository.UserRepository, store Store, ttl time.Duration, logger *logrus.Logger) *UserRepository {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UserRepository{inner: inner, store: store, ttl: ttl, logger: logger}
}

func key(id string) string { return keyPrefix + id }

func (r *UserRepository) GetByID(ctx context.Context, id string, p projection.Policy) (*entity.UserView, error) {
	if p.Includes(projection.FieldPassword) || repository.CacheSkipped(ctx) {
		return r.inner.GetByID(ctx, id, p)
	}

	var cached entity.UserView
	hit, err := r.store.GetJSON(ctx, key(id), &cached)
	if err != nil {
		r.logger.WithError(err).WithField("user_id", id).Warn("user cache read failed")
	}
	if hit {
		return p.Reduce(&cached), nil
	}

	full, err := r.inner.GetByID(ctx, id, cachedPolicy)
	if err != nil || full == nil {
		return nil, err
	}
	if err := r.store.SetJSON(ctx, key(id), full, r.ttl); err != nil {
		r.logger.WithError(err).WithField("user_id", id).Warn("user cache write failed")
	}
	return p.Reduce(full), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string, p projection.Policy) (*entity.UserView, error) {
	return r.inner.GetByEmail(ctx, email, p)
}

func (r *UserRepository) Find(ctx context.Context, f repository.UserFilter, p projection.Policy, page repository.Pagination) ([]*entity.UserView, error) {
	return r.inner.Find(ctx, f, p, page)
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) (*entity.User, error) {
	return r.inner.Create(ctx, u)
}

// Update evicts before and after the write, so a fill that read the old row
// while the write was in flight does not outlive it.
func (r *UserRepository) Update(ctx context.Context, id string, patch repository.UserPatch, p projection.Policy) (*entity.UserView, error) {
	r.evict(ctx, id)
	out, err := r.inner.Update(ctx, id, patch, p)
	r.evict(ctx, id)
	return out, err
}

func (r *UserRepository) Delete(ctx context.Context, id string, p projection.Policy) (*entity.UserView, error) {
	r.evict(ctx, id)
	out, err := r.inner.Delete(ctx, id, p)
	r.evict(ctx, id)
	return out, err
}

func (r *UserRepository) evict(ctx context.Context, id string) {
	if err := r.store.Del(ctx, key(id)); err != nil {
		r.logger.WithError(err).WithField("user_id", id).Warn("user cache evict failed")
	}
}

var _ repository.UserRepository = (*UserRepository)(nil)
