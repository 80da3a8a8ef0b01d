// Package setup is responsible for setting up components.
package setup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/danzh-dev/mealdex/internal/cache"
	"github.com/danzh-dev/mealdex/internal/config"
	"github.com/danzh-dev/mealdex/internal/database"
	mhttp "github.com/danzh-dev/mealdex/internal/http"
	"github.com/danzh-dev/mealdex/internal/mealdb"
)

func Database(ctx context.Context, conf config.Config) (*database.Database, error) {
	dbString := fmt.Sprintf("postgresql://%s:%s@%s:%d/%s",
		conf.Database.User,
		conf.Database.Password,
		conf.Database.Host,
		conf.Database.Port,
		conf.Database.Database,
	)

	pool, err := pgxpool.New(ctx, dbString)
	if err != nil {
		return nil, fmt.Errorf("creating database pool: %w", err)
	}

	db := database.NewDatabase(pool)
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return db, nil
}

// Cache returns nil when no redis address is configured; a nil cache always
// misses.
func Cache(conf config.Config, logger *slog.Logger) *cache.Cache {
	if conf.Redis.Addr == "" {
		logger.Info("REDIS_ADDR not set, upstream response cache disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
	})
	return cache.New(rdb)
}

func Meals(conf config.Config, c *cache.Cache, logger *slog.Logger) *mealdb.Client {
	return mealdb.New(conf.MealDB.BaseURL, mhttp.New(), c, logger)
}
