package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// TokenSigner signs and verifies the session cookie value. The token only
// carries the session id; user data lives in the SessionStore.
type TokenSigner struct {
	secret []byte
}

// NewTokenSigner creates a signer with the given secret.
func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{
		secret: []byte(secret),
	}
}

// Sign issues a token for sessionID that expires after ttl.
func (s *TokenSigner) Sign(sessionID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		ID:        sessionID,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// SessionID validates tokenString and returns the session id it names.
func (s *TokenSigner) SessionID(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	if claims.ID == "" {
		return "", errors.New("session id not found")
	}
	return claims.ID, nil
}

func newSessionID() string {
	return uuid.New().String()
}
