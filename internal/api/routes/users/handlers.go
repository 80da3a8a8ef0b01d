// Package users contains handlers for the user resource.
package users

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/danzh-dev/mealdex/internal/api/requestid"
	"github.com/danzh-dev/mealdex/internal/api/response"
	"github.com/danzh-dev/mealdex/internal/api/token"
	"github.com/danzh-dev/mealdex/internal/argon2id"
	"github.com/danzh-dev/mealdex/internal/database"
	"github.com/danzh-dev/mealdex/internal/env"
	mJson "github.com/danzh-dev/mealdex/internal/json"
	mJwt "github.com/danzh-dev/mealdex/internal/jwt"
	"github.com/danzh-dev/mealdex/internal/password"
)

// HandleRegister godoc
//
//	@Summary	Register a user.
//	@Tags		User
//	@Accept		json
//	@Param		request	body	RegisterRequest	true	"Register Request"
//	@Success	200	{object}	response.Envelope
//	@Failure	400	{object}	response.Envelope	"Validation error or duplicate username/email"
//	@Router		/api/user/register [POST]
func HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)

	// Decode JSON
	env.Logger.DebugContext(ctx, "Reading request body")
	defer func() { _ = r.Body.Close() }()
	var request RegisterRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := mJson.DecodeStrict(&request, decoder); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		_ = response.EncodeError(w, response.ValidationError, "invalid request body", requestID)
		return
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to validate request body", slog.Any("error", err))
		_ = response.EncodeError(w, response.ValidationError, "invalid request body", requestID)
		return
	}

	// Ensure password strength
	env.Logger.DebugContext(ctx, "Validating password")
	if err := password.Validate(request.Password); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to validate password", slog.Any("error", err))
		_ = response.EncodeError(w, response.ValidationError, err.Error(), requestID) // OK to share the error with client.
		return
	}

	// Hash password
	env.Logger.DebugContext(ctx, "Hashing password")
	hash, err := argon2id.EncodeHash(request.Password, argon2id.DefaultParams)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		_ = response.EncodeInternalError(w, requestID)
		return
	}

	// Create user
	env.Logger.DebugContext(ctx, "Creating user")
	_, err = env.Database.CreateUser(ctx, database.CreateUserParams{
		Username:     request.Username,
		Email:        request.Email,
		FirstName:    request.FirstName,
		LastName:     pgtype.Text{String: request.LastName, Valid: request.LastName != ""},
		PasswordHash: hash,
	})
	if database.IsUniqueViolation(err, database.UsernameConstraint) {
		env.Logger.ErrorContext(ctx, "Username already taken", slog.Any("error", err))
		_ = response.EncodeError(w, response.Conflict, "Username already exists", requestID)
		return
	} else if database.IsUniqueViolation(err, database.EmailConstraint) {
		env.Logger.ErrorContext(ctx, "Email already taken", slog.Any("error", err))
		_ = response.EncodeError(w, response.Conflict, "Email already exists", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		_ = response.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	if err := response.EncodeSuccess(w, nil, "User registered successfully"); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// HandleLogin godoc
//
//	@Summary	User login.
//	@Tags		User
//	@Accept		json
//	@Param		request	body	LoginRequest	true	"Login Request"
//	@Success	200	{object}	response.Envelope	"Sets the session cookie"
//	@Failure	401	{object}	response.Envelope	"Invalid password"
//	@Failure	404	{object}	response.Envelope	"User not found"
//	@Router		/api/user/login [POST]
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)

	// Decode JSON
	env.Logger.DebugContext(ctx, "Reading request body")
	defer func() { _ = r.Body.Close() }()
	var request LoginRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := mJson.DecodeStrict(&request, decoder); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		_ = response.EncodeError(w, response.ValidationError, "invalid request body", requestID)
		return
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to validate request body", slog.Any("error", err))
		_ = response.EncodeError(w, response.ValidationError, "invalid request body", requestID)
		return
	}

	// Retrieve user information
	env.Logger.DebugContext(ctx, "Retrieving user information")
	user, err := env.Database.GetUserByUsername(ctx, request.Username)
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "User does not exist", slog.String("username", request.Username))
		_ = response.EncodeError(w, response.NotFound, "User not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to retrieve user information", slog.Any("error", err))
		_ = response.EncodeInternalError(w, requestID)
		return
	}

	// Compare passwords
	env.Logger.DebugContext(ctx, "Comparing passwords")
	match, err := argon2id.Verify(request.Password, user.PasswordHash)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to verify password hash", slog.Any("error", err))
		_ = response.EncodeInternalError(w, requestID)
		return
	}
	if !match {
		env.Logger.ErrorContext(ctx, "Given password is incorrect")
		_ = response.EncodeError(w, response.Unauthorized, "Invalid password", requestID)
		return
	}

	// Create session token
	env.Logger.DebugContext(ctx, "Generating session token")
	sessionToken, err := token.NewSessionToken(mJwt.SessionClaims{
		Username:         user.Username,
		Email:            user.Email,
		FirstName:        user.FirstName,
		RegisteredClaims: jwtRegisteredClaims(user.ID),
	}, env)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create session token", slog.Any("error", err))
		_ = response.EncodeInternalError(w, requestID)
		return
	}

	// Write response
	env.Logger.DebugContext(ctx, "Writing response")
	http.SetCookie(w, token.NewSessionCookie(sessionToken, env))
	err = response.EncodeSuccess(w, LoginResponse{
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName.String,
	}, "User logged in successfully")
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// HandleLogout godoc
//
//	@Summary	User logout. Clears the session cookie; the token itself is
//	@Summary	stateless and simply expires.
//	@Tags		User
//	@Success	200	{object}	response.Envelope
//	@Router		/api/user/logout [POST]
func HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	http.SetCookie(w, token.ClearSessionCookie(env))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")

	if err := response.EncodeSuccess(w, nil, "User logged out successfully"); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// HandleGetMe godoc
//
//	@Summary	Get the authenticated user's record, minus the password hash.
//	@Tags		User
//	@Success	200	{object}	response.Envelope
//	@Failure	401	{object}	response.Envelope
//	@Failure	404	{object}	response.Envelope
//	@Security	SessionCookie
//	@Router		/api/user/me [GET]
func HandleGetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)

	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = response.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Retrieving user record")
	user, err := env.Database.GetUserByID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "user not found", slog.Int64("user-id", userID))
		_ = response.EncodeError(w, response.NotFound, "User not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to retrieve user", slog.Any("error", err))
		_ = response.EncodeInternalError(w, requestID)
		return
	}

	err = response.EncodeSuccess(w, MeResponse{
		ID:                user.ID,
		Username:          user.Username,
		Email:             user.Email,
		FirstName:         user.FirstName,
		LastName:          user.LastName.String,
		FavoriteRecipeIDs: user.FavoriteRecipeIDs,
	}, "User data retrieved successfully")
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// HandleGetFavoriteRecipes godoc
//
//	@Summary		Get the authenticated user's favorite recipes.
//	@Description	Resolves each favorite ID against the upstream recipe API
//	@Description	concurrently. IDs that fail to resolve are skipped.
//	@Tags			User
//	@Success		200	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope	"User not found"
//	@Security		SessionCookie
//	@Router			/api/user/favorite-recipes [GET]
func HandleGetFavoriteRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)

	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = response.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Resolving favorite recipes")
	favorites, err := env.Recipes.ListFavorites(ctx, userID)
	if err != nil {
		encodeComposerError(w, env, ctx, err, requestID, "Failed to retrieve favorite recipes")
		return
	}

	message := "Favorite recipes retrieved successfully"
	if len(favorites) == 0 {
		message = "No favorite recipes found"
	}
	if err := response.EncodeSuccess(w, favorites, message); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// HandleSetFavoriteRecipe godoc
//
//	@Summary		Add or remove a favorite recipe.
//	@Description	Favorites have set semantics: adding twice is a no-op and
//	@Description	removing drops every occurrence.
//	@Tags			User
//	@Accept			json
//	@Param			request	body	SetFavoriteRequest	true	"Set Favorite Request"
//	@Success		200	{object}	response.Envelope
//	@Failure		400	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope	"User not found"
//	@Security		SessionCookie
//	@Router			/api/user/favorite-recipes [PATCH]
func HandleSetFavoriteRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.Extract(ctx), 10)

	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = response.EncodeInternalError(w, requestID)
		return
	}

	// Decode JSON
	env.Logger.DebugContext(ctx, "Reading request body")
	defer func() { _ = r.Body.Close() }()
	var request SetFavoriteRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := mJson.DecodeStrict(&request, decoder); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		_ = response.EncodeError(w, response.ValidationError, "invalid request body", requestID)
		return
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to validate request body", slog.Any("error", err))
		_ = response.EncodeError(w, response.ValidationError, "Recipe ID is required", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Updating favorites",
		slog.String("recipe-id", request.RecipeID),
		slog.Bool("is-favorite", request.IsFavorite))
	if request.IsFavorite {
		err = env.Database.AddFavoriteRecipe(ctx, userID, request.RecipeID)
	} else {
		err = env.Database.RemoveFavoriteRecipe(ctx, userID, request.RecipeID)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "user not found", slog.Int64("user-id", userID))
		_ = response.EncodeError(w, response.NotFound, "User not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to update favorites", slog.Any("error", err))
		_ = response.EncodeInternalError(w, requestID)
		return
	}

	message := "Recipe added to favorites"
	if !request.IsFavorite {
		message = "Recipe removed from favorites"
	}
	if err := response.EncodeSuccess(w, nil, message); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}
