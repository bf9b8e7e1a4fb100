package application

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/user-account-service/internal/domain/entity"
	repo "github.com/oksasatya/user-account-service/internal/domain/repository"
	"github.com/oksasatya/user-account-service/internal/observability"
	"github.com/oksasatya/user-account-service/pkg/apperror"
)

// UserService owns every business rule on user records.
// Indexer and Events are optional; nil disables them.
type UserService struct {
	Repo    repo.UserRepository
	Hasher  PasswordHasher
	Obs     observability.Observer
	Indexer UserIndexer
	Events  EventPublisher
	Now     func() time.Time
}

func NewUserService(repo repo.UserRepository, hasher PasswordHasher, obs observability.Observer, indexer UserIndexer, events EventPublisher) *UserService {
	if obs == nil {
		obs = observability.Nop()
	}
	return &UserService{
		Repo:    repo,
		Hasher:  hasher,
		Obs:     obs,
		Indexer: indexer,
		Events:  events,
		Now:     time.Now,
	}
}

// GetByID returns a non-blocked user.
func (s *UserService) GetByID(ctx context.Context, id string) (_ *entity.UserView, err error) {
	ctx, span := s.Obs.Start(ctx, "user.get_by_id", observability.Fields{"user_id": id})
	defer func() { span.End(err) }()

	u, err := s.Repo.GetByID(ctx, id, userDefaultPolicy)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.NotFound(msgUserNotFound)
	}
	if u.Blocked() {
		return nil, apperror.Forbidden(msgUserBlocked)
	}
	return u, nil
}

// GetAll lists users in store order, blocked ones included.
func (s *UserService) GetAll(ctx context.Context, page repo.Pagination) (_ []*entity.UserView, err error) {
	ctx, span := s.Obs.Start(ctx, "user.get_all", observability.Fields{"skip": page.Skip, "limit": page.Limit})
	defer func() { span.End(err) }()

	if clamped := ClampLimit(page.Limit); clamped != page.Limit {
		span.Debug("pagination limit adjusted", observability.Fields{"requested": page.Limit, "limit": clamped})
		page.Limit = clamped
	}
	users, err := s.Repo.Find(ctx, repo.UserFilter{}, userDefaultPolicy, page)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*entity.UserView{}
	}
	return users, nil
}

// Create registers a new user. The response never carries the password hash or isBlocked.
func (s *UserService) Create(ctx context.Context, data UserInput) (_ *entity.UserView, err error) {
	ctx, span := s.Obs.Start(ctx, "user.create", nil)
	defer func() { span.End(err) }()

	in, err := NormalizeUserInput(data)
	if err != nil {
		return nil, err
	}
	name, hasName := in.Name.Get()
	email, hasEmail := in.Email.Get()
	password, hasPassword := in.Password.Get()
	birthday, hasBirthday := in.Birthday.Get()
	if !hasName || !hasEmail || !hasPassword || !hasBirthday {
		return nil, apperror.BadRequest(msgFieldsRequired)
	}
	if name == "" {
		return nil, apperror.BadRequest(msgNameEmpty)
	}
	span.Debug("normalized user data", observability.Fields{"email": email})

	existing, err := s.Repo.GetByEmail(ctx, email, userDefaultPolicy)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict(msgEmailInUse)
	}

	born, _ := birthday.Date()
	if err := checkAge(born, s.Now()); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, msgCreateFailed, err)
	}

	created, err := s.Repo.Create(ctx, &entity.User{
		Name:      name,
		Email:     email,
		Password:  hash,
		Birthday:  born,
		IsBlocked: false,
	})
	if errors.Is(err, repo.ErrDuplicateEmail) {
		return nil, apperror.Conflict(msgEmailInUse)
	}
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, apperror.Internal(msgCreateFailed)
	}

	s.afterWrite(ctx, span, userDefaultPolicy.Apply(created), EventUserRegistered)
	return userCreatePolicy.Apply(created), nil
}

// Update applies a partial change to a non-blocked user.
func (s *UserService) Update(ctx context.Context, id string, data UserInput) (_ *entity.UserView, err error) {
	ctx, span := s.Obs.Start(ctx, "user.update", observability.Fields{"user_id": id})
	defer func() { span.End(err) }()

	// the block gate must see the stored row, not a cached copy
	current, err := s.Repo.GetByID(repo.SkipCache(ctx), id, userDefaultPolicy)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperror.NotFound(msgUserNotFound)
	}
	if current.Blocked() {
		return nil, apperror.Forbidden(msgUserBlocked)
	}

	in, err := NormalizeUserInput(data)
	if err != nil {
		return nil, err
	}
	patch := repo.UserPatch{Name: in.Name, Email: in.Email, UpdatedAt: s.Now()}

	if name, ok := in.Name.Get(); ok && name == "" {
		return nil, apperror.BadRequest(msgNameEmpty)
	}
	if b, ok := in.Birthday.Get(); ok {
		born, _ := b.Date()
		if err := checkAge(born, s.Now()); err != nil {
			return nil, err
		}
		patch.Birthday = entity.Some(born)
	}
	if email, ok := in.Email.Get(); ok {
		other, err := s.Repo.GetByEmail(ctx, email, userDefaultPolicy)
		if err != nil {
			return nil, err
		}
		if other != nil && other.UserID() != "" && other.UserID() != id {
			return nil, apperror.Conflict(msgEmailInUse)
		}
	}
	if password, ok := in.Password.Get(); ok {
		if err := ValidatePassword(password); err != nil {
			return nil, err
		}
		hash, err := s.Hasher.Hash(password)
		if err != nil {
			return nil, apperror.Wrap(apperror.KindInternal, msgUpdateFailed, err)
		}
		patch.Password = entity.Some(hash)
	}
	if f, ok := in.IsBlocked.Get(); ok {
		patch.IsBlocked = entity.Some(f.Bool())
	}

	updated, err := s.Repo.Update(ctx, id, patch, userDefaultPolicy)
	if errors.Is(err, repo.ErrDuplicateEmail) {
		return nil, apperror.Conflict(msgEmailInUse)
	}
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperror.NotFound(msgUserNotFound)
	}

	var ev EventType
	if blocked, ok := patch.IsBlocked.Get(); ok && blocked {
		ev = EventUserBlocked
	}
	s.afterWrite(ctx, span, updated, ev)
	return updated, nil
}

// Delete hard-deletes a user and returns it as a receipt.
func (s *UserService) Delete(ctx context.Context, id string) (_ *entity.UserView, err error) {
	ctx, span := s.Obs.Start(ctx, "user.delete", observability.Fields{"user_id": id})
	defer func() { span.End(err) }()

	deleted, err := s.Repo.Delete(ctx, id, userDefaultPolicy)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, apperror.NotFound(msgUserNotFound)
	}
	if s.Indexer != nil {
		if iErr := s.Indexer.Remove(ctx, id); iErr != nil {
			span.Debug("search index removal failed", observability.Fields{"error": iErr.Error()})
		}
	}
	return deleted, nil
}

// Search queries the user search index. Without an index it returns nothing.
func (s *UserService) Search(ctx context.Context, query string, size int) (_ []*entity.UserView, err error) {
	ctx, span := s.Obs.Start(ctx, "user.search", observability.Fields{"q": query, "size": size})
	defer func() { span.End(err) }()

	if s.Indexer == nil {
		return []*entity.UserView{}, nil
	}
	hits, err := s.Indexer.Search(ctx, query, size)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.UserView, 0, len(hits))
	for _, h := range hits {
		out = append(out, userDefaultPolicy.Reduce(h))
	}
	return out, nil
}

// afterWrite runs the post-commit side effects. The write already succeeded, so
// their failures are recorded on the span and do not fail the operation.
func (s *UserService) afterWrite(ctx context.Context, span observability.Span, u *entity.UserView, ev EventType) {
	if s.Indexer != nil {
		if err := s.Indexer.Index(ctx, u); err != nil {
			span.Debug("search indexing failed", observability.Fields{"error": err.Error()})
		}
	}
	if s.Events == nil || ev == "" {
		return
	}
	event := UserEvent{Type: ev, UserID: u.UserID(), OccurredAt: s.Now().UTC()}
	if u.Email != nil {
		event.Email = *u.Email
	}
	if u.Name != nil {
		event.Name = *u.Name
	}
	if err := s.Events.Publish(ctx, event); err != nil {
		span.Debug("event publish failed", observability.Fields{"event": string(ev), "error": err.Error()})
	}
}
