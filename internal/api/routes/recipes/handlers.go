// Package recipes contains handlers for the recipes endpoints.
package recipes

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danzh-dev/mealdex/internal/api/requestid"
	"github.com/danzh-dev/mealdex/internal/api/response"
	"github.com/danzh-dev/mealdex/internal/api/token"
	"github.com/danzh-dev/mealdex/internal/env"
	"github.com/danzh-dev/mealdex/internal/recipes"
)

// HandleGetRecipes godoc
//
//	@Summary		Search recipes.
//	@Description	Filters by free-text name and/or category. Authenticated
//	@Description	callers get an isFavorite annotation on every result;
//	@Description	anonymous callers (including expired tokens) get plain
//	@Description	results.
//	@Tags			Recipes
//	@Param			name		query	string	false	"Free-text name filter"
//	@Param			category	query	string	false	"Category filter"
//	@Success		200	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope	"Upstream failure"
//	@Router			/api/recipes [GET]
func HandleGetRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)

	name := r.URL.Query().Get("name")
	category := r.URL.Query().Get("category")

	// Anonymous requests compose without annotation.
	var userID int64
	if id, err := token.UserIDFromCtx(ctx); err == nil {
		userID = id
	}

	env.Logger.DebugContext(ctx, "Composing recipe query",
		slog.String("name", name),
		slog.String("category", category),
		slog.Int64("user-id", userID))
	results, err := env.Recipes.Search(ctx, name, category, userID)
	if errors.Is(err, recipes.ErrUserNotFound) {
		env.Logger.ErrorContext(ctx, "requester not found", slog.Int64("user-id", userID))
		_ = response.EncodeError(w, response.NotFound, "User not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "recipe query failed", slog.Any("error", err))
		_ = response.EncodeError(w, response.UpstreamFailure, "Failed to retrieve recipes", requestID)
		return
	}

	if err := response.EncodeSuccess(w, results, "Recipes retrieved successfully"); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// HandleGetCategories godoc
//
//	@Summary	List recipe categories.
//	@Tags		Recipes
//	@Success	200	{object}	response.Envelope
//	@Failure	500	{object}	response.Envelope	"Upstream failure"
//	@Router		/api/recipes/category [GET]
func HandleGetCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)

	env.Logger.DebugContext(ctx, "Fetching categories")
	categories, err := env.Meals.Categories(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "category fetch failed", slog.Any("error", err))
		_ = response.EncodeError(w, response.UpstreamFailure, "Failed to retrieve categories", requestID)
		return
	}

	if err := response.EncodeSuccess(w, CategoriesResponse{Categories: categories}, "Categories retrieved successfully"); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}
