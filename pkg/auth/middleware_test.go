package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/centra-hq/centra-console/pkg/testhelpers"
)

// mockValidator returns canned claims or an error.
type mockValidator struct {
	claims *Claims
	err    error
}

func (m *mockValidator) ValidateToken(_ string) (*Claims, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.claims, nil
}

func claimsWithSubject(sub string) *Claims {
	return &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: sub}}
}

func okHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := UserIDFromContext(r.Context())
		if err != nil {
			t.Errorf("expected claims in context: %v", err)
		}
		w.Write([]byte(userID))
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	validator := &mockValidator{claims: claimsWithSubject("user_1")}
	mw := NewMiddleware(validator, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/user/sync", nil)
	req.Header.Set("Authorization", "Bearer "+testhelpers.GenerateTestJWT("user_1", "Ana", "ana@example.com"))
	rec := httptest.NewRecorder()

	mw.RequireAuth(okHandler(t))(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "user_1" {
		t.Errorf("expected handler to see user_1, got %q", rec.Body.String())
	}
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	mw := NewMiddleware(&mockValidator{claims: claimsWithSubject("user_1")}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/user/sync", nil)
	rec := httptest.NewRecorder()

	mw.RequireAuth(okHandler(t))(rec, req)

	assertUnauthorized(t, rec)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	mw := NewMiddleware(&mockValidator{claims: claimsWithSubject("user_1")}, zap.NewNop())

	for _, header := range []string{"Basic abc123", "Bearer", "Bearer "} {
		req := httptest.NewRequest(http.MethodPost, "/api/user/sync", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()

		mw.RequireAuth(okHandler(t))(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	mw := NewMiddleware(&mockValidator{err: errors.New("token expired")}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/user/sync", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()

	mw.RequireAuth(okHandler(t))(rec, req)

	assertUnauthorized(t, rec)
}

func TestRequireAuth_EmptySubject(t *testing.T) {
	mw := NewMiddleware(&mockValidator{claims: &Claims{}}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/user/sync", nil)
	req.Header.Set("Authorization", "Bearer "+testhelpers.GenerateTestJWT("", "", ""))
	rec := httptest.NewRecorder()

	mw.RequireAuth(okHandler(t))(rec, req)

	assertUnauthorized(t, rec)
}

func assertUnauthorized(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON error body: %v", err)
	}
	if body["error"] != "unauthorized" {
		t.Errorf("expected error 'unauthorized', got %q", body["error"])
	}
}
