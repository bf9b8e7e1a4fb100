// Package memory is a process-local UserRepository. Users keep insertion order.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/user-account-service/internal/domain/entity"
	"github.com/oksasatya/user-account-service/internal/domain/projection"
	"github.com/oksasatya/user-account-service/internal/domain/repository"
)

type UserRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*entity.User
	now   func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID: make(map[string]*entity.User),
		now:  time.Now,
	}
}

func (r *UserRepository) GetByID(ctx context.Context, id string, p projection.Policy) (*entity.UserView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return p.Apply(u), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string, p projection.Policy) (*entity.UserView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u := r.findEmail(email); u != nil {
		return p.Apply(u), nil
	}
	return nil, nil
}

func (r *UserRepository) Find(ctx context.Context, f repository.UserFilter, p projection.Policy, page repository.Pagination) ([]*entity.UserView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*entity.UserView{}
	skipped := 0
	for _, id := range r.order {
		u := r.byID[id]
		if !f.Matches(u) {
			continue
		}
		if skipped < page.Skip {
			skipped++
			continue
		}
		if page.Limit > 0 && len(out) >= page.Limit {
			break
		}
		out = append(out, p.Apply(u))
	}
	return out, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findEmail(u.Email) != nil {
		return nil, repository.ErrDuplicateEmail
	}
	stored := *u
	stored.ID = uuid.NewString()
	now := r.now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.byID[stored.ID] = &stored
	r.order = append(r.order, stored.ID)

	out := stored
	return &out, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch repository.UserPatch, p projection.Policy) (*entity.UserView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	if email, ok := patch.Email.Get(); ok {
		if other := r.findEmail(email); other != nil && other.ID != id {
			return nil, repository.ErrDuplicateEmail
		}
	}
	next := *u
	patch.Apply(&next)
	r.byID[id] = &next
	return p.Apply(&next), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string, p projection.Policy) (*entity.UserView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return p.Apply(u), nil
}

// findEmail expects the caller to hold the lock.
func (r *UserRepository) findEmail(email string) *entity.User {
	for _, id := range r.order {
		if u := r.byID[id]; u.Email == email {
			return u
		}
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
