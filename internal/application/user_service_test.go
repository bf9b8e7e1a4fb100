package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-account-service/internal/domain/entity"
	"github.com/oksasatya/user-account-service/internal/domain/projection"
	repo "github.com/oksasatya/user-account-service/internal/domain/repository"
	"github.com/oksasatya/user-account-service/internal/infrastructure/memory"
	"github.com/oksasatya/user-account-service/pkg/apperror"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestUserService() (*UserService, *memory.UserRepository) {
	store := memory.NewUserRepository()
	svc := NewUserService(store, plainHasher{}, nil, nil, nil)
	svc.Now = func() time.Time { return fixedNow }
	return svc, store
}

func mustCreate(t *testing.T, svc *UserService, name, email string) string {
	t.Helper()
	u, err := svc.Create(context.Background(), validInput(name, email))
	require.NoError(t, err)
	return u.UserID()
}

func blockUser(t *testing.T, store *memory.UserRepository, id string) {
	t.Helper()
	_, err := store.Update(context.Background(), id, repo.UserPatch{IsBlocked: entity.Some(true)}, projection.All())
	require.NoError(t, err)
}

func TestCreate(t *testing.T) {
	svc, store := newTestUserService()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		out, err := svc.Create(ctx, validInput("  alice ", " Alice@Example.com"))
		require.NoError(t, err)

		assert.NotEmpty(t, out.UserID())
		assert.Equal(t, "alice", *out.Name)
		assert.Equal(t, "alice@example.com", *out.Email)
		require.NotNil(t, out.Birthday)
		assert.Equal(t, time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC), *out.Birthday)
		assert.Nil(t, out.Password)
		assert.Nil(t, out.IsBlocked)
		assert.Nil(t, out.CreatedAt)

		stored, err := store.GetByID(ctx, out.UserID(), projection.All())
		require.NoError(t, err)
		assert.True(t, isHashed(*stored.Password))
		assert.False(t, *stored.IsBlocked)
	})

	t.Run("duplicate email in any case", func(t *testing.T) {
		for _, email := range []string{"alice@example.com", "ALICE@example.com", "  alice@EXAMPLE.com  "} {
			_, err := svc.Create(ctx, validInput("other", email))
			require.Error(t, err, email)
			assert.True(t, apperror.Is(err, apperror.KindConflict), email)
			assert.Equal(t, msgEmailInUse, err.Error())
		}
	})

	t.Run("underage", func(t *testing.T) {
		in := validInput("kid", "kid@example.com")
		in.Birthday = entity.Some(BirthdayDate(fixedNow.AddDate(-18, 0, 1)))
		_, err := svc.Create(ctx, in)
		require.Error(t, err)
		assert.True(t, apperror.Is(err, apperror.KindBadRequest))
		assert.Equal(t, msgUnderage, err.Error())
	})

	t.Run("weak password", func(t *testing.T) {
		in := validInput("bob", "bob@example.com")
		in.Password = entity.Some("abc12!")
		_, err := svc.Create(ctx, in)
		assert.True(t, apperror.Is(err, apperror.KindBadRequest))
	})

	t.Run("missing field", func(t *testing.T) {
		in := validInput("bob", "bob@example.com")
		in.Birthday = entity.None[Birthday]()
		_, err := svc.Create(ctx, in)
		assert.True(t, apperror.Is(err, apperror.KindBadRequest))
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := svc.Create(ctx, validInput("   ", "blank@example.com"))
		assert.True(t, apperror.Is(err, apperror.KindBadRequest))
	})
}

func TestCreateStoreReturnsNothing(t *testing.T) {
	m := new(MockUserRepository)
	m.On("GetByEmail", mock.Anything, "nil@example.com", mock.Anything).Return(nil, nil)
	m.On("Create", mock.Anything, mock.Anything).Return(nil, nil)

	svc := NewUserService(m, plainHasher{}, nil, nil, nil)
	_, err := svc.Create(context.Background(), validInput("nil", "nil@example.com"))

	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindInternal))
	assert.Equal(t, msgCreateFailed, err.Error())
	m.AssertExpectations(t)
}

func TestCreateRaceMapsToConflict(t *testing.T) {
	m := new(MockUserRepository)
	m.On("GetByEmail", mock.Anything, "race@example.com", mock.Anything).Return(nil, nil)
	m.On("Create", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("insert: %w", repo.ErrDuplicateEmail))

	svc := NewUserService(m, plainHasher{}, nil, nil, nil)
	_, err := svc.Create(context.Background(), validInput("race", "race@example.com"))

	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestCreateSideEffects(t *testing.T) {
	store := memory.NewUserRepository()
	idx := new(MockIndexer)
	pub := new(MockPublisher)
	idx.On("Index", mock.Anything, mock.Anything).Return(errors.New("es down"))
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(ev UserEvent) bool {
		return ev.Type == EventUserRegistered && ev.Email == "side@example.com" && ev.Name == "side"
	})).Return(nil)

	svc := NewUserService(store, plainHasher{}, nil, idx, pub)
	out, err := svc.Create(context.Background(), validInput("side", "side@example.com"))

	require.NoError(t, err, "index failure does not fail the write")
	assert.NotEmpty(t, out.UserID())
	idx.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestGetByID(t *testing.T) {
	svc, store := newTestUserService()
	ctx := context.Background()
	id := mustCreate(t, svc, "carol", "carol@example.com")

	u, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "carol", *u.Name)
	assert.Nil(t, u.Password)
	require.NotNil(t, u.IsBlocked)
	assert.False(t, *u.IsBlocked)

	_, err = svc.GetByID(ctx, "missing")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	blockUser(t, store, id)
	_, err = svc.GetByID(ctx, id)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
	assert.Equal(t, msgUserBlocked, err.Error())
}

func TestGetAll(t *testing.T) {
	svc, store := newTestUserService()
	ctx := context.Background()
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, mustCreate(t, svc, fmt.Sprintf("user%d", i), fmt.Sprintf("u%d@example.com", i)))
	}
	blockUser(t, store, ids[1])

	all, err := svc.GetAll(ctx, repo.Pagination{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.True(t, *all[1].IsBlocked, "blocked users are listed")
	for i, u := range all {
		assert.Equal(t, ids[i], u.UserID())
		assert.Nil(t, u.Password)
	}

	page, err := svc.GetAll(ctx, repo.Pagination{Skip: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[1], page[0].UserID())
	assert.Equal(t, ids[2], page[1].UserID())

	empty, err := svc.GetAll(ctx, repo.Pagination{Skip: 10})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestGetAllClampsLimit(t *testing.T) {
	cases := map[int]int{0: 100, 500: 100, 10: 10, -1: 100}
	for requested, want := range cases {
		m := new(MockUserRepository)
		m.On("Find", mock.Anything, repo.UserFilter{}, mock.Anything, repo.Pagination{Skip: 3, Limit: want}).
			Return([]*entity.UserView{}, nil)

		svc := NewUserService(m, plainHasher{}, nil, nil, nil)
		_, err := svc.GetAll(context.Background(), repo.Pagination{Skip: 3, Limit: requested})

		require.NoError(t, err)
		m.AssertExpectations(t)
	}
}

func TestUpdate(t *testing.T) {
	svc, store := newTestUserService()
	ctx := context.Background()
	id := mustCreate(t, svc, "dave", "dave@example.com")
	otherID := mustCreate(t, svc, "erin", "erin@example.com")

	t.Run("partial", func(t *testing.T) {
		out, err := svc.Update(ctx, id, UserInput{Name: entity.Some("  david ")})
		require.NoError(t, err)
		assert.Equal(t, "david", *out.Name)
		assert.Equal(t, "dave@example.com", *out.Email)
		assert.Nil(t, out.Password)

		full, _ := store.GetByID(ctx, id, projection.All())
		assert.Equal(t, fixedNow, *full.UpdatedAt)
	})

	t.Run("own email is allowed", func(t *testing.T) {
		_, err := svc.Update(ctx, id, UserInput{Email: entity.Some("DAVE@example.com")})
		assert.NoError(t, err)
	})

	t.Run("email taken by another user", func(t *testing.T) {
		_, err := svc.Update(ctx, id, UserInput{Email: entity.Some(" Erin@Example.com")})
		assert.True(t, apperror.Is(err, apperror.KindConflict))
	})

	t.Run("password is rehashed", func(t *testing.T) {
		_, err := svc.Update(ctx, id, UserInput{Password: entity.Some("NewPass1!")})
		require.NoError(t, err)
		full, _ := store.GetByID(ctx, id, projection.All())
		assert.Equal(t, "hashed:NewPass1!", *full.Password)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := svc.Update(ctx, id, UserInput{Password: entity.Some("short")})
		assert.True(t, apperror.Is(err, apperror.KindBadRequest))
	})

	t.Run("underage birthday", func(t *testing.T) {
		_, err := svc.Update(ctx, id, UserInput{Birthday: entity.Some(BirthdayText("2020-01-01"))})
		assert.True(t, apperror.Is(err, apperror.KindBadRequest))
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := svc.Update(ctx, id, UserInput{Name: entity.Some("  ")})
		assert.True(t, apperror.Is(err, apperror.KindBadRequest))
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := svc.Update(ctx, "missing", UserInput{Name: entity.Some("x")})
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})

	t.Run("textual block flag", func(t *testing.T) {
		out, err := svc.Update(ctx, otherID, UserInput{IsBlocked: entity.Some(BlockedText("yes"))})
		require.NoError(t, err)
		assert.False(t, *out.IsBlocked)

		out, err = svc.Update(ctx, otherID, UserInput{IsBlocked: entity.Some(BlockedText("true"))})
		require.NoError(t, err)
		assert.True(t, *out.IsBlocked)
	})

	t.Run("blocked user cannot be updated", func(t *testing.T) {
		_, err := svc.Update(ctx, otherID, UserInput{Name: entity.Some("x")})
		assert.True(t, apperror.Is(err, apperror.KindForbidden))
	})
}

func TestUpdateWithNoFieldsStampsUpdatedAt(t *testing.T) {
	svc, store := newTestUserService()
	ctx := context.Background()
	id := mustCreate(t, svc, "gina", "gina@example.com")

	later := fixedNow.Add(time.Hour)
	svc.Now = func() time.Time { return later }
	_, err := svc.Update(ctx, id, UserInput{})
	require.NoError(t, err)

	full, _ := store.GetByID(ctx, id, projection.All())
	assert.Equal(t, later, *full.UpdatedAt)
}

func TestHasherFailureIsInternal(t *testing.T) {
	svc, store := newTestUserService()
	ctx := context.Background()
	id := mustCreate(t, svc, "hank", "hank@example.com")

	svc.Hasher = brokenHasher{}
	_, err := svc.Create(ctx, validInput("ivan", "ivan@example.com"))
	assert.True(t, apperror.Is(err, apperror.KindInternal))

	_, err = svc.Update(ctx, id, UserInput{Password: entity.Some("NewPass1!")})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindInternal))
	assert.ErrorContains(t, err, msgUpdateFailed)

	full, _ := store.GetByID(ctx, id, projection.All())
	assert.Equal(t, "hashed:Secret1!", *full.Password)
}

func TestGetAllNegativeLimitIsCapped(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()
	for i := 0; i < MaxPageLimit+5; i++ {
		mustCreate(t, svc, fmt.Sprintf("user%d", i), fmt.Sprintf("user%d@example.com", i))
	}
	users, err := svc.GetAll(ctx, repo.Pagination{Limit: -1})
	require.NoError(t, err)
	assert.Len(t, users, MaxPageLimit)
}

func TestUpdatePublishesBlockedEvent(t *testing.T) {
	store := memory.NewUserRepository()
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(ev UserEvent) bool { return ev.Type == EventUserRegistered })).Return(nil)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(ev UserEvent) bool { return ev.Type == EventUserBlocked })).Return(nil).Once()

	svc := NewUserService(store, plainHasher{}, nil, nil, pub)
	id := mustCreate(t, svc, "frank", "frank@example.com")

	_, err := svc.Update(context.Background(), id, UserInput{IsBlocked: entity.Some(BlockedBool(true))})
	require.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestDelete(t *testing.T) {
	store := memory.NewUserRepository()
	idx := new(MockIndexer)
	idx.On("Index", mock.Anything, mock.Anything).Return(nil)
	svc := NewUserService(store, plainHasher{}, nil, idx, nil)
	ctx := context.Background()
	id := mustCreate(t, svc, "gina", "gina@example.com")
	blockUser(t, store, id)
	idx.On("Remove", mock.Anything, id).Return(nil)

	out, err := svc.Delete(ctx, id)
	require.NoError(t, err, "blocked users can be deleted")
	assert.Equal(t, id, out.UserID())
	assert.Nil(t, out.Password)

	_, err = svc.Delete(ctx, id)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = svc.GetByID(ctx, id)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	idx.AssertExpectations(t)
}

func TestSearch(t *testing.T) {
	svc, _ := newTestUserService()
	out, err := svc.Search(context.Background(), "alice", 10)
	require.NoError(t, err)
	assert.Empty(t, out)

	idx := new(MockIndexer)
	hash := "leak"
	idx.On("Search", mock.Anything, "alice", 10).Return([]*entity.UserView{{Password: &hash}}, nil)
	svc.Indexer = idx

	out, err = svc.Search(context.Background(), "alice", 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].Password)
}
