package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/centra-hq/centra-console/pkg/auth"
	"github.com/centra-hq/centra-console/pkg/models"
	"github.com/centra-hq/centra-console/pkg/repositories"
)

// UserSyncHandler mirrors the authenticated user into the humans table.
// The dashboard calls it on first load so graph and stats views can join
// on a known human row.
type UserSyncHandler struct {
	users       repositories.UserRepository
	authEnabled bool
	logger      *zap.Logger
}

// NewUserSyncHandler creates a new UserSyncHandler. When authEnabled is
// false there is no identity to sync and the endpoint succeeds as a no-op.
func NewUserSyncHandler(users repositories.UserRepository, authEnabled bool, logger *zap.Logger) *UserSyncHandler {
	return &UserSyncHandler{
		users:       users,
		authEnabled: authEnabled,
		logger:      logger,
	}
}

// RegisterRoutes registers the sync route, wrapped in the auth middleware
// when authentication is enabled.
func (h *UserSyncHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	if h.authEnabled {
		mux.HandleFunc("POST /api/user/sync", mw.RequireAuth(h.SyncUser))
		return
	}
	mux.HandleFunc("POST /api/user/sync", h.SyncUser)
}

// SyncUser handles POST /api/user/sync requests.
func (h *UserSyncHandler) SyncUser(w http.ResponseWriter, r *http.Request) {
	if !h.authEnabled {
		if err := WriteJSON(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
			h.logger.Error("Failed to encode sync response", zap.Error(err))
		}
		return
	}

	claims, ok := auth.GetClaims(r.Context())
	if !ok || claims.Subject == "" {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	name := claims.Name
	if name == "" {
		name = "User"
	}

	err := h.users.Upsert(r.Context(), &models.Human{
		ID:          claims.Subject,
		DisplayName: name,
		Email:       claims.Email,
	})
	if err != nil {
		h.logger.Error("Failed to sync user",
			zap.String("user_id", claims.Subject),
			zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "sync_failed", "Failed to sync user")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
		h.logger.Error("Failed to encode sync response", zap.Error(err))
	}
}
