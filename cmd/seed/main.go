// Command seed loads the default tags and, with -users, a few demo accounts
// for local development. Running it twice is harmless.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/log"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

type seedTag struct {
	name, color, slug string
}

var defaultTags = []seedTag{
	{"Breakfast", "#e26c2d", "breakfast"},
	{"Lunch", "#49b64e", "lunch"},
	{"Dinner", "#8775d2", "dinner"},
}

const demoPassword = "testpassword123"

var demoUsers = []types.RegisterRequest{
	{Email: "john.doe@example.com", Username: "johndoe", FirstName: "John", LastName: "Doe"},
	{Email: "jane.smith@example.com", Username: "janesmith", FirstName: "Jane", LastName: "Smith"},
	{Email: "bob.wilson@example.com", Username: "bobwilson", FirstName: "Bob", LastName: "Wilson"},
}

func main() {
	withUsers := flag.Bool("users", false, "Also create demo users")
	flag.Parse()

	ctx := context.Background()
	if err := run(ctx, *withUsers); err != nil {
		log.Error(ctx, "seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, withUsers bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := log.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := seedTags(ctx, service.NewTagService(db)); err != nil {
		return err
	}
	if withUsers {
		return seedUsers(ctx, db, cfg)
	}
	return nil
}

func seedTags(ctx context.Context, tags *service.TagService) error {
	for _, t := range defaultTags {
		_, created, err := tags.Ensure(ctx, t.name, t.color, t.slug)
		if err != nil {
			return fmt.Errorf("seed tag %s: %w", t.slug, err)
		}
		log.Info(ctx, "tag", "slug", t.slug, "created", created)
	}
	return nil
}

func seedUsers(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	auth := service.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL)
	for _, req := range demoUsers {
		req.Password = demoPassword
		_, err := auth.Register(ctx, &req)
		switch {
		case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrUsernameTaken):
			log.Info(ctx, "user already exists, skipping", "email", req.Email)
		case err != nil:
			return fmt.Errorf("seed user %s: %w", req.Email, err)
		default:
			log.Info(ctx, "user created", "email", req.Email)
		}
	}
	return nil
}
