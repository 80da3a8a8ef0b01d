// Package middleware contains middleware functions for the API
package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/httplog/v3"
	"github.com/oklog/ulid/v2"

	"github.com/danzh-dev/mealdex/internal/api/requestid"
	"github.com/danzh-dev/mealdex/internal/api/response"
	"github.com/danzh-dev/mealdex/internal/api/token"
	"github.com/danzh-dev/mealdex/internal/env"
	mJwt "github.com/danzh-dev/mealdex/internal/jwt"
	"github.com/danzh-dev/mealdex/internal/log"
)

// InjectEnv injects an environment struct into the request context.
func InjectEnv(environment *env.Env) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(env.WithCtx(r.Context(), environment)))
		})
	}
}

func LogRequest(logger *slog.Logger) func(http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		LogExtraAttrs: func(r *http.Request, reqBody string, respStatus int) []slog.Attr {
			if id := requestid.Extract(r.Context()); id != 0 {
				return []slog.Attr{slog.Uint64("log_id", id)}
			}
			return []slog.Attr{slog.String("log_id", "N/A")}
		},
	})
}

// AddRequestID adds a request ID to the request context.
func AddRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := ulid.Now()
		r = r.WithContext(log.AppendCtx(r.Context(), slog.Uint64("log_id", requestID)))
		r = r.WithContext(requestid.Inject(r.Context(), requestID))
		next.ServeHTTP(w, r)
	})
}

// AddCors adds the necessary CORS headers to the response.
func AddCors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e := env.EnvFromCtx(r.Context())
		origin := r.Header.Get("Origin")

		// Production pins the origin; dev reflects whatever asked.
		allowedOrigin := e.Config.HostOrigin
		if !e.Config.IsProd() && origin != "" {
			allowedOrigin = origin
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Authenticate verifies the session token. In required mode a missing token
// is 401 and an invalid or expired one is 403. In optional mode both cases
// fall through anonymously so public endpoints can personalize when possible.
func Authenticate(required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			e := env.EnvFromCtx(ctx)
			requestID := strconv.FormatUint(requestid.Extract(ctx), 10)

			rawToken := token.FromRequest(r, e)
			if rawToken == "" {
				if !required {
					next.ServeHTTP(w, r)
					return
				}
				e.Logger.ErrorContext(ctx, "no session token provided")
				_ = response.EncodeError(w, response.Unauthorized, "No token provided", requestID)
				return
			}

			claims, err := mJwt.ValidateJWT(rawToken, e.Config.AppSecret.Version, e.Config.Secret())
			if err != nil {
				if !required {
					e.Logger.DebugContext(ctx, "ignoring invalid session token", slog.Any("error", err))
					next.ServeHTTP(w, r)
					return
				}
				e.Logger.ErrorContext(ctx, "invalid session token", slog.Any("error", err))
				_ = response.EncodeError(w, response.Forbidden, "Forbidden", requestID)
				return
			}

			r = r.WithContext(log.AppendCtx(r.Context(), slog.String("user-id", claims.Subject)))
			r = r.WithContext(token.ClaimsWithCtx(r.Context(), claims))
			next.ServeHTTP(w, r)
		})
	}
}
