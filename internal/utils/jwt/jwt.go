package jwt

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const Issuer = "tubely-access"

var (
	ErrNoAuthHeader = errors.New("authorization header required")
	ErrMalformed    = errors.New("invalid authorization header format")
)

// MakeJWT signs an HS256 access token for userID.
func MakeJWT(userID, secret string, expiresIn time.Duration) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
	})
	return token.SignedString([]byte(secret))
}

// ValidateJWT verifies the signature, issuer and expiry of tokenString and
// returns the user ID it was issued for.
func ValidateJWT(tokenString, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}

	userID, err := claims.GetSubject()
	if err != nil || userID == "" {
		return "", errors.New("token has no subject")
	}

	return userID, nil
}

// GetBearerToken extracts the token from an "Authorization: Bearer <token>" header.
func GetBearerToken(headers http.Header) (string, error) {
	authHeader := headers.Get("Authorization")
	if authHeader == "" {
		return "", ErrNoAuthHeader
	}

	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return "", ErrMalformed
	}

	return token, nil
}
