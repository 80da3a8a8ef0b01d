package users

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/danzh-dev/mealdex/internal/api/response"
	"github.com/danzh-dev/mealdex/internal/env"
	"github.com/danzh-dev/mealdex/internal/recipes"
)

func jwtRegisteredClaims(userID int64) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{Subject: strconv.FormatInt(userID, 10)}
}

// encodeComposerError maps composer errors onto the response taxonomy.
func encodeComposerError(w http.ResponseWriter, e *env.Env, ctx context.Context,
	err error, requestID, upstreamMessage string) {
	switch {
	case errors.Is(err, recipes.ErrUserNotFound):
		e.Logger.ErrorContext(ctx, "user not found", slog.Any("error", err))
		_ = response.EncodeError(w, response.NotFound, "User not found", requestID)
	case errors.Is(err, recipes.ErrUpstream):
		e.Logger.ErrorContext(ctx, "upstream recipe call failed", slog.Any("error", err))
		_ = response.EncodeError(w, response.UpstreamFailure, upstreamMessage, requestID)
	default:
		e.Logger.ErrorContext(ctx, "unexpected composer error", slog.Any("error", err))
		_ = response.EncodeInternalError(w, requestID)
	}
}
