package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte(strings.Repeat("s", 32))

func testClaims() SessionClaims {
	claims := SessionClaims{
		Username:  "gordon",
		Email:     "gordon@example.com",
		FirstName: "Gordon",
	}
	claims.Subject = "42"
	return claims
}

func TestGenerateAndValidateJWT(t *testing.T) {
	signed, err := GenerateJWT(testClaims(), testSecret, DefaultKID)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	claims, err := ValidateJWT(signed, DefaultKID, testSecret)
	if err != nil {
		t.Fatalf("ValidateJWT() error = %v", err)
	}

	if claims.Username != "gordon" {
		t.Errorf("Username = %q, want %q", claims.Username, "gordon")
	}
	if claims.Email != "gordon@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "gordon@example.com")
	}
	if claims.Subject != "42" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "42")
	}

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if lifetime != SessionDuration {
		t.Errorf("token lifetime = %v, want %v", lifetime, SessionDuration)
	}
}

func TestValidateJWTRejections(t *testing.T) {
	signed, err := GenerateJWT(testClaims(), testSecret, DefaultKID)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	tests := []struct {
		name    string
		token   string
		version string
		secret  []byte
	}{
		{
			name:    "wrong secret",
			token:   signed,
			version: DefaultKID,
			secret:  []byte(strings.Repeat("x", 32)),
		},
		{
			name:    "wrong key version",
			token:   signed,
			version: "2",
			secret:  testSecret,
		},
		{
			name:    "garbage token",
			token:   "not.a.token",
			version: DefaultKID,
			secret:  testSecret,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateJWT(tt.token, tt.version, tt.secret); err == nil {
				t.Error("ValidateJWT() error = nil, want error")
			}
		})
	}
}

func TestValidateJWTExpired(t *testing.T) {
	claims := testClaims()
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now.Add(-2 * time.Hour))
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = DefaultKID
	signed, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	if _, err := ValidateJWT(signed, DefaultKID, testSecret); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("ValidateJWT() error = %v, want ErrTokenExpired", err)
	}
}

func TestValidateJWTMissingKID(t *testing.T) {
	claims := testClaims()
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(time.Hour))

	// Signed without a kid header at all.
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	if _, err := ValidateJWT(signed, DefaultKID, testSecret); err == nil {
		t.Error("ValidateJWT() error = nil, want error")
	}
}
