package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier resolves a raw token string to a user ID. It exists so the
// auth middleware does not depend on the signing implementation; a
// revocation-aware verifier can wrap TokenService behind the same interface.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// TokenService issues and verifies stateless HS256 tokens binding a user ID.
// The secret is injected once at construction and immutable afterwards.
type TokenService struct {
	secret []byte
	maxAge time.Duration
}

// NewTokenService creates a token service. maxAge of 0 disables expiry;
// otherwise tokens older than maxAge are rejected at verification time.
func NewTokenService(secret string, maxAge time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), maxAge: maxAge}
}

// Issue signs a token for userID with the issue time embedded. No database
// access happens here or in Verify.
func (s *TokenService) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:  userID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if s.maxAge > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.maxAge))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the signature and returns the bound user ID.
// Empty input yields ErrMissingToken; a bad signature, malformed payload,
// unexpected signing method, or an over-age token yields ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrMissingToken
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}

	// Max-age policy also covers tokens issued before expiry was configured:
	// the issue time is checked directly, not just the exp claim.
	if s.maxAge > 0 {
		if claims.IssuedAt == nil || time.Since(claims.IssuedAt.Time) > s.maxAge {
			return "", ErrInvalidToken
		}
	}

	return claims.Subject, nil
}
