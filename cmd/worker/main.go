package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/logger"
	"github.com/skburgers/backend/pkg/pubsub"
	"github.com/skburgers/backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub client", err)
		}
	}()

	service, err := NewService(ServiceParams{
		Config: cfg,
		Logger: logg,
		Redis:  redisClient,
		PubSub: pubsubClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env": cfg.App.Env,
	})
	logg.Info(ctx, "starting worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "worker shutting down gracefully")
}
