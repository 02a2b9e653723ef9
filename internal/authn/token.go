// Package authn verifies signed identity tokens from the identity provider.
// The engine never sees credentials; it consumes a token already issued by
// the provider and extracts the verified identity string from it.
package authn

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/akarpov87/todosync/internal/errs"
)

// claims carries the provider-asserted identity. Email is preferred; the
// subject is the fallback.
type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 identity tokens against a shared key.
type Verifier struct {
	key []byte
}

// NewVerifier constructs a Verifier for the given signing key.
func NewVerifier(key []byte) *Verifier { return &Verifier{key: key} }

// Verify parses and validates the token and returns the identity string.
// Any parse, signature or expiry problem maps to errs.ErrAuthenticationFailed.
func (v *Verifier) Verify(_ context.Context, token string) (string, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrAuthenticationFailed, err)
	}

	identity := c.Email
	if identity == "" {
		identity = c.Subject
	}
	if identity == "" {
		return "", fmt.Errorf("%w: token carries no identity", errs.ErrAuthenticationFailed)
	}
	return identity, nil
}
