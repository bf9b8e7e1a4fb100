package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-account-service/config"
	"github.com/oksasatya/user-account-service/internal/application"
	"github.com/oksasatya/user-account-service/internal/domain/repository"
	"github.com/oksasatya/user-account-service/internal/infrastructure/cache"
	"github.com/oksasatya/user-account-service/internal/infrastructure/memory"
	"github.com/oksasatya/user-account-service/internal/infrastructure/messaging"
	pginfra "github.com/oksasatya/user-account-service/internal/infrastructure/postgres"
	"github.com/oksasatya/user-account-service/internal/infrastructure/search"
	"github.com/oksasatya/user-account-service/internal/observability"
	"github.com/oksasatya/user-account-service/pkg/helpers"
	mailtpl "github.com/oksasatya/user-account-service/pkg/mailer/templates"
)

// Container holds the infrastructure built in main. Nil clients switch the
// matching feature off.
type Container struct {
	Config    *config.Config
	Logger    *logrus.Logger
	PGPool    *pgxpool.Pool
	Redis     *redis.Client
	ES        *elasticsearch.Client
	RabbitPub *helpers.RabbitPublisher
	JWT       *helpers.JWTManager
	Observer  observability.Observer

	users       repository.UserRepository
	userService *application.UserService
	authService *application.AuthService
}

// UserRepository picks the store from config and adds the redis cache when configured.
func (c *Container) UserRepository() repository.UserRepository {
	if c.users != nil {
		return c.users
	}
	var repo repository.UserRepository
	if c.PGPool != nil && c.Config.UsesPostgres() {
		repo = pginfra.NewUserRepository(c.PGPool)
	} else {
		repo = memory.NewUserRepository()
	}
	if c.Redis != nil {
		repo = cache.NewUserRepository(repo, helpers.NewRedisJSON(c.Redis), c.Config.UserCacheTTL, c.Logger)
	}
	c.users = repo
	return repo
}

func (c *Container) observer() observability.Observer {
	if c.Observer == nil {
		return observability.Nop()
	}
	return c.Observer
}

func (c *Container) hasher() *helpers.BcryptHasher {
	return helpers.NewBcryptHasher(c.Config.BcryptCost)
}

func (c *Container) UserService() *application.UserService {
	if c.userService != nil {
		return c.userService
	}
	var indexer application.UserIndexer
	if c.ES != nil {
		indexer = search.NewUserIndex(c.ES, c.Config.ESUsersIndex)
	}
	var events application.EventPublisher
	if c.RabbitPub != nil {
		events = messaging.NewEmailEventPublisher(c.RabbitPub, c.Branding(), c.Config.MailSendEnabled)
	}
	c.userService = application.NewUserService(c.UserRepository(), c.hasher(), c.observer(), indexer, events)
	return c.userService
}

func (c *Container) Tokens() *helpers.JWTManager {
	if c.JWT == nil {
		c.JWT = helpers.NewJWTManager(c.Config.JWTSecret, c.Config.JWTTTL)
	}
	return c.JWT
}

func (c *Container) AuthService() *application.AuthService {
	if c.authService == nil {
		c.authService = application.NewAuthService(c.UserRepository(), c.hasher(), c.Tokens(), c.observer())
	}
	return c.authService
}

func (c *Container) Branding() mailtpl.Branding {
	return mailtpl.Branding{
		AppName:        c.Config.AppName,
		CompanyName:    c.Config.CompanyName,
		CompanyAddress: c.Config.CompanyAddress,
		SupportURL:     c.Config.SupportURL,
	}
}
