// Package auth is the identity-collaborator boundary: it validates the
// bearer tokens the transport layer receives and extracts the caller
// principal from them. The core never fabricates an identity; a missing
// or invalid token yields the anonymous principal (empty string).
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Authenticator issues and validates HS256-signed bearer tokens whose
// subject claim carries the principal.
type Authenticator struct {
	secret []byte
	issuer string
}

func New(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret), issuer: "solace"}
}

// Issue mints a token for principal, valid for ttl.
func (a *Authenticator) Issue(principal string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   principal,
		Issuer:    a.issuer,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Validate checks the token signature and expiry and returns the
// principal it names. Any failure yields an error; callers treat a
// failed validation as an anonymous caller.
func (a *Authenticator) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}
