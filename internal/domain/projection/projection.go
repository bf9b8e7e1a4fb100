// Package projection decides which User fields cross a read or write boundary.
//
// A Policy maps field names to an include flag. Fields the policy does not
// mention fall back to a per-policy default: Read policies include them,
// Response policies exclude them.
package projection

import (
	"github.com/oksasatya/user-account-service/internal/domain/entity"
)

// Field names a User attribute as it appears on the wire.
type Field string

const (
	FieldID        Field = "id"
	FieldName      Field = "name"
	FieldEmail     Field = "email"
	FieldPassword  Field = "password"
	FieldBirthday  Field = "birthday"
	FieldIsBlocked Field = "isBlocked"
	FieldCreatedAt Field = "createdAt"
	FieldUpdatedAt Field = "updatedAt"
)

// Fields lists every User field in wire order.
var Fields = []Field{
	FieldID, FieldName, FieldEmail, FieldPassword,
	FieldBirthday, FieldIsBlocked, FieldCreatedAt, FieldUpdatedAt,
}

// Policy is immutable; With returns a modified copy.
type Policy struct {
	rules    map[Field]bool
	fallback bool
}

// Read builds a policy for values fetched from the repository.
func Read(rules map[Field]bool) Policy {
	return Policy{rules: copyRules(rules), fallback: true}
}

// Response builds a policy for values handed back to the caller after a write.
func Response(rules map[Field]bool) Policy {
	return Policy{rules: copyRules(rules), fallback: false}
}

// All includes every field.
func All() Policy {
	return Read(nil)
}

func (p Policy) With(f Field, include bool) Policy {
	rules := copyRules(p.rules)
	rules[f] = include
	return Policy{rules: rules, fallback: p.fallback}
}

func (p Policy) Includes(f Field) bool {
	if inc, ok := p.rules[f]; ok {
		return inc
	}
	return p.fallback
}

// Rules returns a copy of the explicit rules, for logging.
func (p Policy) Rules() map[Field]bool {
	return copyRules(p.rules)
}

// Apply projects a full user. A nil user stays nil.
func (p Policy) Apply(u *entity.User) *entity.UserView {
	if u == nil {
		return nil
	}
	return p.Reduce(Full(u))
}

// Reduce drops the fields the policy excludes from an already projected view.
func (p Policy) Reduce(v *entity.UserView) *entity.UserView {
	if v == nil {
		return nil
	}
	out := &entity.UserView{}
	if p.Includes(FieldID) {
		out.ID = clone(v.ID)
	}
	if p.Includes(FieldName) {
		out.Name = clone(v.Name)
	}
	if p.Includes(FieldEmail) {
		out.Email = clone(v.Email)
	}
	if p.Includes(FieldPassword) {
		out.Password = clone(v.Password)
	}
	if p.Includes(FieldBirthday) {
		out.Birthday = clone(v.Birthday)
	}
	if p.Includes(FieldIsBlocked) {
		out.IsBlocked = clone(v.IsBlocked)
	}
	if p.Includes(FieldCreatedAt) {
		out.CreatedAt = clone(v.CreatedAt)
	}
	if p.Includes(FieldUpdatedAt) {
		out.UpdatedAt = clone(v.UpdatedAt)
	}
	return out
}

// Full converts a user into a view with every field present.
func Full(u *entity.User) *entity.UserView {
	if u == nil {
		return nil
	}
	v := &entity.UserView{
		ID:        ptr(u.ID),
		Name:      ptr(u.Name),
		Email:     ptr(u.Email),
		Password:  ptr(u.Password),
		IsBlocked: ptr(u.IsBlocked),
	}
	if !u.Birthday.IsZero() {
		v.Birthday = ptr(u.Birthday)
	}
	if !u.CreatedAt.IsZero() {
		v.CreatedAt = ptr(u.CreatedAt)
	}
	if !u.UpdatedAt.IsZero() {
		v.UpdatedAt = ptr(u.UpdatedAt)
	}
	return v
}

// ToUser rebuilds a user from a view; excluded fields become zero values.
func ToUser(v *entity.UserView) *entity.User {
	if v == nil {
		return nil
	}
	return &entity.User{
		ID:        deref(v.ID),
		Name:      deref(v.Name),
		Email:     deref(v.Email),
		Password:  deref(v.Password),
		Birthday:  deref(v.Birthday),
		IsBlocked: deref(v.IsBlocked),
		CreatedAt: deref(v.CreatedAt),
		UpdatedAt: deref(v.UpdatedAt),
	}
}

func copyRules(in map[Field]bool) map[Field]bool {
	out := make(map[Field]bool, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
