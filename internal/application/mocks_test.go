package application

import (
	"context"
	"errors"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/oksasatya/user-account-service/internal/domain/entity"
	"github.com/oksasatya/user-account-service/internal/domain/projection"
	repo "github.com/oksasatya/user-account-service/internal/domain/repository"
)

// plainHasher keeps tests fast; bcrypt is covered in pkg/helpers.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Verify(p, h string) bool       { return h == "hashed:"+p }

// brokenHasher fails every Hash call.
type brokenHasher struct{ plainHasher }

func (brokenHasher) Hash(string) (string, error) { return "", errors.New("hasher unavailable") }

type MockIndexer struct {
	mock.Mock
}

func (m *MockIndexer) Index(ctx context.Context, u *entity.UserView) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockIndexer) Remove(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockIndexer) Search(ctx context.Context, query string, size int) ([]*entity.UserView, error) {
	args := m.Called(ctx, query, size)
	if v := args.Get(0); v != nil {
		return v.([]*entity.UserView), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, ev UserEvent) error {
	return m.Called(ctx, ev).Error(0)
}

type MockTokens struct {
	mock.Mock
}

func (m *MockTokens) Generate(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

// MockUserRepository is used where the memory store cannot produce the case under test.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string, p projection.Policy) (*entity.UserView, error) {
	args := m.Called(ctx, id, p)
	return viewArg(args.Get(0)), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string, p projection.Policy) (*entity.UserView, error) {
	args := m.Called(ctx, email, p)
	return viewArg(args.Get(0)), args.Error(1)
}

func (m *MockUserRepository) Find(ctx context.Context, f repo.UserFilter, p projection.Policy, page repo.Pagination) ([]*entity.UserView, error) {
	args := m.Called(ctx, f, p, page)
	if v := args.Get(0); v != nil {
		return v.([]*entity.UserView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, u *entity.User) (*entity.User, error) {
	args := m.Called(ctx, u)
	if v := args.Get(0); v != nil {
		return v.(*entity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id string, patch repo.UserPatch, p projection.Policy) (*entity.UserView, error) {
	args := m.Called(ctx, id, patch, p)
	return viewArg(args.Get(0)), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string, p projection.Policy) (*entity.UserView, error) {
	args := m.Called(ctx, id, p)
	return viewArg(args.Get(0)), args.Error(1)
}

func viewArg(v any) *entity.UserView {
	if v == nil {
		return nil
	}
	return v.(*entity.UserView)
}

func validInput(name, email string) UserInput {
	return UserInput{
		Name:     entity.Some(name),
		Email:    entity.Some(email),
		Password: entity.Some("Secret1!"),
		Birthday: entity.Some(BirthdayText("1990-05-17")),
	}
}

func isHashed(s string) bool { return strings.HasPrefix(s, "hashed:") }
