// Package jwt provides functions for generating and validating session JWTs.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionDuration is how long a session token is valid. Tokens are not
// refreshed; clients must log in again after expiry.
const SessionDuration = time.Hour

const DefaultKID = "1"

// SessionClaims is the identity carried by a session token.
type SessionClaims struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`

	jwt.RegisteredClaims
}

func GenerateJWT(claims SessionClaims, secret []byte, version string) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(SessionDuration))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = version

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func ValidateJWT(rawToken, version string, secret []byte) (*SessionClaims, error) {
	keyFunc := func(token *jwt.Token) (any, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("missing/invalid kid value")
		}
		if kid != version {
			return nil, fmt.Errorf("verifying KID value, value=%q", kid)
		}
		return secret, nil
	}

	var claims SessionClaims
	if _, err := jwt.ParseWithClaims(rawToken, &claims,
		keyFunc, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})); err != nil {
		return nil, err
	}
	return &claims, nil
}
