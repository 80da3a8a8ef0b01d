// Package token contains utilities for the session cookie and the identity
// it carries.
package token

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/danzh-dev/mealdex/internal/env"
	"github.com/danzh-dev/mealdex/internal/jwt"
)

const sessionLifetimeSeconds = 60 * 60 // matches jwt.SessionDuration

var ErrNoIdentity = errors.New("no identity in context")

func SessionCookieName(e *env.Env) string {
	if e.Config.IsProd() {
		return "__Host-token"
	}
	return "token"
}

// NewSessionToken signs a session token for the given claims.
func NewSessionToken(claims jwt.SessionClaims, e *env.Env) (string, error) {
	secret := e.Config.Secret()
	if len(secret) == 0 {
		return "", errors.New("app secret is not configured")
	}
	return jwt.GenerateJWT(claims, secret, e.Config.AppSecret.Version)
}

func NewSessionCookie(token string, e *env.Env) *http.Cookie {
	cookie := &http.Cookie{
		Name:     SessionCookieName(e),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   sessionLifetimeSeconds,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	}

	// Cross-site cookies in production require SameSite=None with Secure.
	if e.Config.IsProd() {
		cookie.SameSite = http.SameSiteNoneMode
		cookie.Secure = true
	}
	return cookie
}

func ClearSessionCookie(e *env.Env) *http.Cookie {
	cookie := NewSessionCookie("", e)
	cookie.MaxAge = -1
	return cookie
}

// FromRequest extracts the raw session token from the cookie or a bearer
// Authorization header. Returns "" when neither is present.
func FromRequest(r *http.Request, e *env.Env) string {
	if cookie, err := r.Cookie(SessionCookieName(e)); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if auth := r.Header.Get("Authorization"); auth != "" {
		if raw, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return raw
		}
	}
	return ""
}

type claimsKeyType struct{}

var claimsKey claimsKeyType

func ClaimsWithCtx(ctx context.Context, claims *jwt.SessionClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromCtx returns the verified session claims, or nil for anonymous
// requests.
func ClaimsFromCtx(ctx context.Context) *jwt.SessionClaims {
	if claims, ok := ctx.Value(claimsKey).(*jwt.SessionClaims); ok {
		return claims
	}
	return nil
}

// UserIDFromCtx parses the subject of the verified claims. Returns
// ErrNoIdentity for anonymous requests.
func UserIDFromCtx(ctx context.Context) (int64, error) {
	claims := ClaimsFromCtx(ctx)
	if claims == nil {
		return 0, ErrNoIdentity
	}
	return strconv.ParseInt(claims.Subject, 10, 64)
}
