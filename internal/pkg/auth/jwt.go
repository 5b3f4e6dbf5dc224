// Package auth turns opaque bearer credentials into caller identity and
// role, and hashes/compares passwords for the gateway's auth routes.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ecommerce-platform/internal/pkg/apperr"
)

// Claims is the verified caller identity extracted from a token.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the caller holds the admin role.
func (c *Claims) IsAdmin() bool { return c.Role == "admin" }

// Verifier issues and verifies HS256-signed claims.
type Verifier struct {
	secret []byte
	ttl    time.Duration
}

// NewVerifier builds a verifier with the shared signing secret and the
// token lifetime used by Issue.
func NewVerifier(secret string, ttl time.Duration) *Verifier {
	return &Verifier{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given identity.
func (v *Verifier) Issue(userID, email, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, err, "sign token")
	}
	return signed, nil
}

// Verify parses and validates a token, distinguishing expired tokens from
// otherwise invalid ones.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, apperr.New(apperr.KindUnauthenticated, "missing authentication token")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Wrap(apperr.KindUnauthenticated, err, "token expired")
		}
		return nil, apperr.Wrap(apperr.KindUnauthenticated, err, "invalid token")
	}
	if !token.Valid {
		return nil, apperr.New(apperr.KindUnauthenticated, "invalid token")
	}
	return claims, nil
}
