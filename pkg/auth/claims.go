// Package auth provides JWT-based authentication for the console API.
// It validates session tokens issued by the identity provider using JWKS
// endpoints.
package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// ClaimsKey is the context key for storing JWT claims.
const ClaimsKey contextKey = "claims"

// Claims represents the session token claims issued by the identity
// provider. It embeds RegisteredClaims for standard JWT fields (sub, iss,
// exp, etc.) and adds the profile claims the console uses.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"` // User email address
	Name  string `json:"name,omitempty"`  // Display name
}

// GetClaims retrieves JWT claims from the request context.
// Returns nil and false if claims are not present.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}

// UserIDFromContext extracts the authenticated user ID from JWT claims in
// context. Returns an error if not authenticated or the subject is empty.
func UserIDFromContext(ctx context.Context) (string, error) {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return "", fmt.Errorf("authentication required: no claims in context")
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("missing user ID in token claims")
	}
	return claims.Subject, nil
}
