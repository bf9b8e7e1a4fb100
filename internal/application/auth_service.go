package application

import (
	"context"

	"github.com/oksasatya/user-account-service/internal/domain/entity"
	repo "github.com/oksasatya/user-account-service/internal/domain/repository"
	"github.com/oksasatya/user-account-service/internal/observability"
	"github.com/oksasatya/user-account-service/pkg/apperror"
)

// LoginResult is the user view plus the issued bearer token.
type LoginResult struct {
	*entity.UserView
	Token string `json:"token"`
}

type AuthService struct {
	Repo   repo.UserRepository
	Hasher PasswordHasher
	Tokens TokenService
	Obs    observability.Observer
}

func NewAuthService(repo repo.UserRepository, hasher PasswordHasher, tokens TokenService, obs observability.Observer) *AuthService {
	if obs == nil {
		obs = observability.Nop()
	}
	return &AuthService{Repo: repo, Hasher: hasher, Tokens: tokens, Obs: obs}
}

// Login checks credentials and issues a token. The password is compared as given.
func (s *AuthService) Login(ctx context.Context, email, password string) (_ *LoginResult, err error) {
	email = NormalizeEmail(email)
	ctx, span := s.Obs.Start(ctx, "auth.login", observability.Fields{"email": email})
	defer func() { span.End(err) }()

	u, err := s.Repo.GetByEmail(ctx, email, loginLookupPolicy)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.NotFound(msgUserNotFound)
	}
	if u.Blocked() {
		return nil, apperror.Forbidden(msgUserBlocked)
	}

	hash := ""
	if u.Password != nil {
		hash = *u.Password
	}
	if hash == "" || !s.Hasher.Verify(password, hash) {
		return nil, apperror.Unauthorized(msgInvalidPwd)
	}

	token, err := s.Tokens.Generate(u.UserID())
	if err != nil {
		return nil, err
	}
	span.Debug("token issued", observability.Fields{"user_id": u.UserID()})

	return &LoginResult{UserView: loginResponsePolicy.Reduce(u), Token: token}, nil
}
