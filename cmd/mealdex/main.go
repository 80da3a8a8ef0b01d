package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/danzh-dev/mealdex/internal/api"
	"github.com/danzh-dev/mealdex/internal/config"
	"github.com/danzh-dev/mealdex/internal/env"
	"github.com/danzh-dev/mealdex/internal/log"
	"github.com/danzh-dev/mealdex/internal/recipes"
	"github.com/danzh-dev/mealdex/internal/setup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	const setupTime = 30 * time.Second
	setupCtx, cancel := context.WithTimeout(ctx, setupTime)
	defer cancel()

	logger := log.New(nil)

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, using system environment")
	}

	conf, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := setup.Database(setupCtx, conf)
	if err != nil {
		logger.Error("failed to setup database", slog.Any("error", err))
		os.Exit(1)
	}

	upstreamCache := setup.Cache(conf, logger)
	meals := setup.Meals(conf, upstreamCache, logger)

	environment := &env.Env{
		Logger:   logger,
		Database: db,
		Meals:    meals,
		Recipes:  recipes.NewComposer(meals, db, logger),
		Config:   conf,
	}

	if err := api.Start(environment); err != nil {
		environment.Logger.Error("API failed", slog.Any("error", err))
		os.Exit(1)
	}
}
