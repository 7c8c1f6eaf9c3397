package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/log"
	"github.com/foodgram/backend/internal/server"
	"github.com/foodgram/backend/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Error(ctx, "server error", "error", err)
		os.Exit(1)
	}
	log.Info(ctx, "server stopped")
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if err := log.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	if cfg.Env == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Info(ctx, "starting foodgram", "env", cfg.Env.String())

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	// redis only backs rate limiting, so the API runs without it
	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Warn(ctx, "rate limiting disabled", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	images, err := service.NewImageStore(ctx, cfg)
	if err != nil {
		return err
	}

	return server.New(cfg, db, redisClient, images).Start(ctx)
}
