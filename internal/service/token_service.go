package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrTokenGeneration = errors.New("failed to generate authentication token")
)

const tokenIssuer = "workout-tracker"

// TokenService issues and verifies the signed bearer tokens that prove a
// prior successful login or signup. Tokens are stateless; expiry is the
// only revocation mechanism.
type TokenService interface {
	Issue(userID string) (string, error)
	Verify(token string) (userID string, err error)
}

// tokenClaims defines the structure of the JWT payload.
type tokenClaims struct {
	jwt.RegisteredClaims
}

type tokenService struct {
	secret     []byte
	expiration time.Duration
}

// NewTokenService creates a TokenService signing with the given secret.
// Tokens expire after the given duration (three days by default config).
func NewTokenService(secret string, expiration time.Duration) TokenService {
	if secret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if expiration <= 0 {
		expiration = 72 * time.Hour
	}
	return &tokenService{
		secret:     []byte(secret),
		expiration: expiration,
	}
}

// Issue creates a new signed token with the user ID as subject.
func (s *tokenService) Issue(userID string) (string, error) {
	now := time.Now()
	claims := &tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", ErrTokenGeneration
	}
	return signed, nil
}

// Verify parses and validates a token and returns its subject.
// Any failure (bad signature, wrong algorithm, malformed, expired,
// missing subject) maps to ErrInvalidToken.
func (s *tokenService) Verify(tokenString string) (string, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
