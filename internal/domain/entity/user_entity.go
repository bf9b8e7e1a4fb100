package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// Password always holds a bcrypt hash, never the plain text.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	Birthday  time.Time
	IsBlocked bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserView is a projected User: a nil field was excluded by the visibility policy.
type UserView struct {
	ID        *string    `json:"id,omitempty"`
	Name      *string    `json:"name,omitempty"`
	Email     *string    `json:"email,omitempty"`
	Password  *string    `json:"password,omitempty"`
	Birthday  *time.Time `json:"birthday,omitempty"`
	IsBlocked *bool      `json:"isBlocked,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Blocked treats an excluded isBlocked field as not blocked.
func (v *UserView) Blocked() bool {
	return v != nil && v.IsBlocked != nil && *v.IsBlocked
}

func (v *UserView) UserID() string {
	if v == nil || v.ID == nil {
		return ""
	}
	return *v.ID
}
