package application

import (
	"context"
	"time"

	"github.com/oksasatya/user-account-service/internal/domain/entity"
)

// PasswordHasher is a one-way hash with verification.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// TokenService mints signed, time limited bearer tokens carrying the user id.
type TokenService interface {
	Generate(userID string) (string, error)
}

// UserIndexer keeps a search index of users in step with the store.
type UserIndexer interface {
	Index(ctx context.Context, u *entity.UserView) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, query string, size int) ([]*entity.UserView, error)
}

type EventType string

const (
	EventUserRegistered EventType = "user.registered"
	EventUserBlocked    EventType = "user.blocked"
)

// UserEvent is published after a committed change.
type UserEvent struct {
	Type       EventType `json:"type"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, ev UserEvent) error
}
