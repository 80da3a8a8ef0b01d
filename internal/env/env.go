// Package env provides a structure for managing application-wide dependencies.
package env

import (
	"context"
	"log/slog"

	"github.com/danzh-dev/mealdex/internal/config"
	"github.com/danzh-dev/mealdex/internal/database"
	"github.com/danzh-dev/mealdex/internal/log"
	"github.com/danzh-dev/mealdex/internal/recipes"
)

type Env struct {
	Logger   *slog.Logger
	Database *database.Database
	Meals    recipes.MealSource
	Recipes  *recipes.Composer
	Config   config.Config
}

// Null returns an Env safe to use where no dependencies are wired, e.g. in
// tests or before setup completes.
func Null() *Env {
	return &Env{Logger: log.NullLogger()}
}

type envKeyType struct{}

var envKey envKeyType

func WithCtx(ctx context.Context, environment *Env) context.Context {
	return context.WithValue(ctx, envKey, environment)
}

// EnvFromCtx returns the Env injected by middleware, or a null Env when none
// is present.
func EnvFromCtx(ctx context.Context) *Env {
	if e, ok := ctx.Value(envKey).(*Env); ok && e != nil {
		return e
	}
	return Null()
}
