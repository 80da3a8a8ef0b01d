// Package recipes composes upstream recipe lookups with the caller's
// favorites.
package recipes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/danzh-dev/mealdex/internal/mealdb"
)

var (
	// ErrUpstream is the single taxonomy value every upstream call failure
	// collapses to.
	ErrUpstream = errors.New("recipe retrieval failed")

	ErrUserNotFound = errors.New("user not found")
)

const maxConcurrentLookups = 8

// Recipe is a meal annotated with the requesting user's favorite status. The
// annotation is recomputed per request and never cached.
type Recipe struct {
	mealdb.Meal

	IsFavorite bool `json:"isFavorite"`
}

// MealSource is the upstream recipe API surface the composer needs.
type MealSource interface {
	SearchByName(ctx context.Context, name string) ([]mealdb.Meal, error)
	FilterByCategory(ctx context.Context, category string) ([]mealdb.MealStub, error)
	LookupByID(ctx context.Context, id string) (*mealdb.Meal, error)
	Categories(ctx context.Context) ([]mealdb.Category, error)
}

// FavoriteSource provides the caller's favorite recipe IDs.
type FavoriteSource interface {
	GetFavoriteRecipeIDs(ctx context.Context, userID int64) ([]string, error)
}

type Composer struct {
	meals     MealSource
	favorites FavoriteSource
	logger    *slog.Logger
}

func NewComposer(meals MealSource, favorites FavoriteSource, logger *slog.Logger) *Composer {
	return &Composer{
		meals:     meals,
		favorites: favorites,
		logger:    logger,
	}
}

// Search queries the upstream by name (an empty name returns the full
// corpus), annotates favorites for userID (0 means anonymous), and, when
// category is non-empty, narrows the results to the category via a second
// upstream call. An empty result is success, not an error.
func (c *Composer) Search(ctx context.Context, name, category string, userID int64) ([]Recipe, error) {
	meals, err := c.meals.SearchByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	var favorites map[string]struct{}
	if userID != 0 {
		ids, err := c.favorites.GetFavoriteRecipeIDs(ctx, userID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		} else if err != nil {
			return nil, fmt.Errorf("fetching favorites: %w", err)
		}
		favorites = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			favorites[id] = struct{}{}
		}
	}

	results := make([]Recipe, 0, len(meals))
	for _, meal := range meals {
		_, isFavorite := favorites[meal.ID]
		results = append(results, Recipe{Meal: meal, IsFavorite: isFavorite})
	}

	if category == "" {
		return results, nil
	}

	stubs, err := c.meals.FilterByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	filterIDs := make([]string, 0, len(stubs))
	for _, stub := range stubs {
		filterIDs = append(filterIDs, stub.ID)
	}

	return IntersectByOrder(results, filterIDs), nil
}

// IntersectByOrder keeps only the primary results whose ID appears in
// filterIDs, preserving the primary order and full records. This is how
// combined name+category filtering works without a combined upstream
// endpoint.
func IntersectByOrder(primary []Recipe, filterIDs []string) []Recipe {
	allowed := make(map[string]struct{}, len(filterIDs))
	for _, id := range filterIDs {
		allowed[id] = struct{}{}
	}

	kept := make([]Recipe, 0, len(primary))
	for _, r := range primary {
		if _, ok := allowed[r.ID]; ok {
			kept = append(kept, r)
		}
	}
	return kept
}

// ListFavorites resolves the user's favorite IDs to full records with one
// concurrent upstream lookup per ID. IDs that fail to resolve are logged and
// skipped rather than failing the whole listing; the rest come back in
// favorites order. A user with no favorites gets an empty list without any
// upstream call.
func (c *Composer) ListFavorites(ctx context.Context, userID int64) ([]Recipe, error) {
	ids, err := c.favorites.GetFavoriteRecipeIDs(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, fmt.Errorf("fetching favorites: %w", err)
	}

	if len(ids) == 0 {
		return []Recipe{}, nil
	}

	resolved := make([]*mealdb.Meal, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, id := range ids {
		g.Go(func() error {
			meal, err := c.meals.LookupByID(gctx, id)
			if err != nil {
				c.logger.WarnContext(gctx, "favorite lookup failed, skipping",
					slog.String("recipe-id", id), slog.Any("error", err))
				return nil
			}
			if meal == nil {
				c.logger.WarnContext(gctx, "favorite recipe missing upstream, skipping",
					slog.String("recipe-id", id))
				return nil
			}
			resolved[i] = meal
			return nil
		})
	}
	_ = g.Wait()

	results := make([]Recipe, 0, len(ids))
	for _, meal := range resolved {
		if meal == nil {
			continue
		}
		results = append(results, Recipe{Meal: *meal, IsFavorite: true})
	}
	return results, nil
}
