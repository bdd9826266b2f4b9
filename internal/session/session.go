// Package session resolves the authenticated identity the remote lane is
// keyed by. Tokens are issued by the external authentication provider; this
// package only verifies and unpacks them.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrNoSubject    = errors.New("session token has no subject")
)

// Session is a verified identity with its expiry.
type Session struct {
	UserID    string
	ExpiresAt time.Time
}

// Parse verifies an HS256 token against the shared secret and extracts the
// identity. Expired tokens fail verification.
func Parse(tokenString, secret string) (*Session, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrNoSubject
	}

	sess := &Session{UserID: claims.Subject}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

// Expired reports whether the session has passed its expiry. Sessions
// without an expiry never expire.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Issue creates a signed token for an identity. Used by tests and local
// development; production tokens come from the authentication provider.
func Issue(userID, secret string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	})
	return token.SignedString([]byte(secret))
}
