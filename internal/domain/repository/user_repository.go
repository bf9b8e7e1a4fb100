package repository

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/user-account-service/internal/domain/entity"
	"github.com/oksasatya/user-account-service/internal/domain/projection"
)

// ErrDuplicateEmail is returned when a write would break email uniqueness.
var ErrDuplicateEmail = errors.New("email already exists")

// Pagination is applied after filtering, in insertion order. Limit 0 means no limit.
type Pagination struct {
	Skip  int
	Limit int
}

// UserFilter narrows Find. Zero values do not filter.
type UserFilter struct {
	Email      string
	IsBlocked  *bool
	BornAfter  *time.Time
	BornBefore *time.Time
}

// UserPatch lists the fields an Update writes; absent fields are left untouched.
type UserPatch struct {
	Name      entity.Optional[string]
	Email     entity.Optional[string]
	Password  entity.Optional[string]
	Birthday  entity.Optional[time.Time]
	IsBlocked entity.Optional[bool]
	UpdatedAt time.Time
}

// UserRepository defines the persistence contract for users.
// Reads return nil, nil when nothing matches; projections are applied after fetch.
type UserRepository interface {
	GetByID(ctx context.Context, id string, p projection.Policy) (*entity.UserView, error)
	GetByEmail(ctx context.Context, email string, p projection.Policy) (*entity.UserView, error)
	Find(ctx context.Context, f UserFilter, p projection.Policy, page Pagination) ([]*entity.UserView, error)
	// Create assigns ID and CreatedAt and returns the stored user.
	Create(ctx context.Context, u *entity.User) (*entity.User, error)
	Update(ctx context.Context, id string, patch UserPatch, p projection.Policy) (*entity.UserView, error)
	Delete(ctx context.Context, id string, p projection.Policy) (*entity.UserView, error)
}

// Matches reports whether u passes the filter. Stores without a query language use it directly.
func (f UserFilter) Matches(u *entity.User) bool {
	if f.Email != "" && u.Email != f.Email {
		return false
	}
	if f.IsBlocked != nil && u.IsBlocked != *f.IsBlocked {
		return false
	}
	if f.BornAfter != nil && !u.Birthday.After(*f.BornAfter) {
		return false
	}
	if f.BornBefore != nil && !u.Birthday.Before(*f.BornBefore) {
		return false
	}
	return true
}

// Apply writes the present patch fields onto u.
func (p UserPatch) Apply(u *entity.User) {
	if v, ok := p.Name.Get(); ok {
		u.Name = v
	}
	if v, ok := p.Email.Get(); ok {
		u.Email = v
	}
	if v, ok := p.Password.Get(); ok {
		u.Password = v
	}
	if v, ok := p.Birthday.Get(); ok {
		u.Birthday = v
	}
	if v, ok := p.IsBlocked.Get(); ok {
		u.IsBlocked = v
	}
	if !p.UpdatedAt.IsZero() {
		u.UpdatedAt = p.UpdatedAt
	}
}

type skipCacheKey struct{}

// SkipCache marks reads made with ctx as needing the stored row; caching
// decorators pass them straight to the backing store.
func SkipCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipCacheKey{}, true)
}

// CacheSkipped reports whether ctx was marked by SkipCache.
func CacheSkipped(ctx context.Context) bool {
	v, _ := ctx.Value(skipCacheKey{}).(bool)
	return v
}
