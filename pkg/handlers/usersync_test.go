package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/centra-hq/centra-console/pkg/auth"
	"github.com/centra-hq/centra-console/pkg/testhelpers"
)

func syncMux(t *testing.T, handler *UserSyncHandler) *http.ServeMux {
	t.Helper()
	validator, err := auth.NewJWKSClient(&auth.JWKSConfig{EnableVerification: false})
	if err != nil {
		t.Fatalf("NewJWKSClient failed: %v", err)
	}
	mw := auth.NewMiddleware(validator, zap.NewNop())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, mw)
	return mux
}

func TestSyncUser_UpsertsAuthenticatedUser(t *testing.T) {
	repo := &recordingUserRepo{}
	mux := syncMux(t, NewUserSyncHandler(repo, true, zap.NewNop()))

	req := httptest.NewRequest(http.MethodPost, "/api/user/sync", nil)
	req.Header.Set("Authorization", "Bearer "+testhelpers.GenerateTestJWT("user_7", "Ana Lima", "ana@example.com"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(repo.upserts) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(repo.upserts))
	}

	human := repo.upserts[0]
	if human.ID != "user_7" || human.DisplayName != "Ana Lima" || human.Email != "ana@example.com" {
		t.Errorf("unexpected upsert: %+v", human)
	}
}

func TestSyncUser_NamelessUserGetsFallback(t *testing.T) {
	repo := &recordingUserRepo{}
	mux := syncMux(t, NewUserSyncHandler(repo, true, zap.NewNop()))

	req := httptest.NewRequest(http.MethodPost, "/api/user/sync", nil)
	req.Header.Set("Authorization", "Bearer "+testhelpers.GenerateTestJWT("user_8", "", ""))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(repo.upserts) != 1 || repo.upserts[0].DisplayName != "User" {
		t.Errorf("expected fallback display name, got %+v", repo.upserts)
	}
}

func TestSyncUser_Unauthenticated(t *testing.T) {
	repo := &recordingUserRepo{}
	mux := syncMux(t, NewUserSyncHandler(repo, true, zap.NewNop()))

	req := httptest.NewRequest(http.MethodPost, "/api/user/sync", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}
	if len(repo.upserts) != 0 {
		t.Error("unauthenticated requests must not write to the database")
	}
}

func TestSyncUser_AuthDisabledIsANoOp(t *testing.T) {
	repo := &recordingUserRepo{}
	mux := syncMux(t, NewUserSyncHandler(repo, false, zap.NewNop()))

	req := httptest.NewRequest(http.MethodPost, "/api/user/sync", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with auth disabled, got %d", rec.Code)
	}
	if len(repo.upserts) != 0 {
		t.Error("disabled auth means nothing to sync")
	}
}
