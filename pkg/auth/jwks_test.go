package auth

import (
	"testing"

	"github.com/centra-hq/centra-console/pkg/testhelpers"
)

func TestJWKSClient_VerificationDisabledParsesToken(t *testing.T) {
	client, err := NewJWKSClient(&JWKSConfig{EnableVerification: false})
	if err != nil {
		t.Fatalf("NewJWKSClient failed: %v", err)
	}

	token := testhelpers.GenerateTestJWT("user_42", "Ana Lima", "ana@example.com")
	claims, err := client.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	if claims.Subject != "user_42" {
		t.Errorf("expected subject user_42, got %q", claims.Subject)
	}
	if claims.Name != "Ana Lima" {
		t.Errorf("expected name claim to survive parsing, got %q", claims.Name)
	}
	if claims.Email != "ana@example.com" {
		t.Errorf("expected email claim to survive parsing, got %q", claims.Email)
	}
}

func TestJWKSClient_VerificationDisabledRejectsGarbage(t *testing.T) {
	client, err := NewJWKSClient(&JWKSConfig{EnableVerification: false})
	if err != nil {
		t.Fatalf("NewJWKSClient failed: %v", err)
	}

	if _, err := client.ValidateToken("not.a.jwt"); err == nil {
		t.Error("expected error for malformed token")
	}
	if _, err := client.ValidateToken(""); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestNewJWKSClient_UnreachableEndpoint(t *testing.T) {
	_, err := NewJWKSClient(&JWKSConfig{
		EnableVerification: true,
		JWKSEndpoints: map[string]string{
			"https://clerk.example.com": "http://127.0.0.1:1/.well-known/jwks.json",
		},
	})
	if err == nil {
		t.Error("expected error when JWKS endpoint cannot be fetched")
	}
}
