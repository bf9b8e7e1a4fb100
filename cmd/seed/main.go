package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-account-service/config"
	"github.com/oksasatya/user-account-service/internal/application"
	"github.com/oksasatya/user-account-service/internal/container"
	"github.com/oksasatya/user-account-service/internal/domain/entity"
	pginfra "github.com/oksasatya/user-account-service/internal/infrastructure/postgres"
	"github.com/oksasatya/user-account-service/pkg/apperror"
	"github.com/oksasatya/user-account-service/pkg/helpers"
)

// seed creates a demo account through the regular service rules, so the
// password policy and age limit apply to seeded users too.
func main() {
	_ = godotenv.Load()

	name := flag.String("name", "demoUser", "user name (alphanumeric)")
	email := flag.String("email", "demo@example.com", "user email")
	password := flag.String("password", "Password123!", "plain password")
	birthday := flag.String("birthday", "1990-01-01", "ISO birthday")
	flag.Parse()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	if !cfg.UsesPostgres() {
		logger.Fatal("seeding needs STORE_DRIVER=postgres")
	}

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{DSN: cfg.PostgresDSN(), MaxConns: 2})
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	c := &container.Container{Config: cfg, Logger: logger, PGPool: pool}
	u, err := c.UserService().Create(ctx, application.UserInput{
		Name:     entity.Some(*name),
		Email:    entity.Some(*email),
		Password: entity.Some(*password),
		Birthday: entity.Some(application.BirthdayText(*birthday)),
	})
	switch {
	case apperror.Is(err, apperror.KindConflict):
		logger.WithField("email", *email).Info("user already seeded")
		return
	case err != nil:
		logger.Fatalf("failed to seed user: %v", err)
	}
	logger.WithFields(logrus.Fields{"id": u.UserID(), "email": *email, "name": *name}).Info("seeded user")
}
