package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/centra-hq/centra-console/pkg/models"
	"github.com/centra-hq/centra-console/pkg/repositories"
	"github.com/centra-hq/centra-console/pkg/webhooks"
)

// webhookEvent is the identity provider's event envelope. Only the fields
// the sync cares about are decoded.
type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		ID                    string `json:"id"`
		FirstName             string `json:"first_name"`
		LastName              string `json:"last_name"`
		PrimaryEmailAddressID string `json:"primary_email_address_id"`
		EmailAddresses        []struct {
			ID           string `json:"id"`
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

// WebhookHandler processes signed user lifecycle events from the identity
// provider.
type WebhookHandler struct {
	verifier *webhooks.Verifier
	users    repositories.UserRepository
	logger   *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler. verifier is nil when no
// signing secret is configured; deliveries then respond 500.
func NewWebhookHandler(verifier *webhooks.Verifier, users repositories.UserRepository, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		verifier: verifier,
		users:    users,
		logger:   logger,
	}
}

// RegisterRoutes registers the webhook handler's routes on the given mux.
func (h *WebhookHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/webhooks/clerk", h.HandleUserEvent)
}

// HandleUserEvent handles POST /api/webhooks/clerk requests.
// The signature must verify before anything touches the database.
func (h *WebhookHandler) HandleUserEvent(w http.ResponseWriter, r *http.Request) {
	if h.verifier == nil {
		h.logger.Error("Webhook delivery received but no signing secret is configured")
		_ = ErrorResponse(w, http.StatusInternalServerError, "not_configured",
			"Webhook secret is not configured")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Failed to read body")
		return
	}

	if err := h.verifier.Verify(
		r.Header.Get(webhooks.HeaderID),
		r.Header.Get(webhooks.HeaderTimestamp),
		r.Header.Get(webhooks.HeaderSignature),
		body,
	); err != nil {
		h.logger.Warn("Rejected webhook delivery", zap.Error(err))
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_signature",
			"Missing or invalid webhook signature")
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid event payload")
		return
	}

	switch event.Type {
	case "user.created", "user.updated":
		err = h.users.Upsert(r.Context(), &models.Human{
			ID:          event.Data.ID,
			DisplayName: displayName(event),
			Email:       primaryEmail(event),
		})
	case "user.deleted":
		err = h.users.Delete(r.Context(), event.Data.ID)
	default:
		h.logger.Debug("Ignoring webhook event", zap.String("type", event.Type))
	}

	if err != nil {
		h.logger.Error("Failed to apply webhook event",
			zap.String("type", event.Type),
			zap.String("user_id", event.Data.ID),
			zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "sync_failed",
			"Failed to process event")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
		h.logger.Error("Failed to encode webhook response", zap.Error(err))
	}
}

// displayName joins the name parts, falling back to "User" like the
// dashboard sync does.
func displayName(event webhookEvent) string {
	name := strings.TrimSpace(strings.Join([]string{
		event.Data.FirstName,
		event.Data.LastName,
	}, " "))
	if name == "" {
		return "User"
	}
	return name
}

// primaryEmail resolves the primary email address, or the first one when
// no primary is marked.
func primaryEmail(event webhookEvent) string {
	for _, addr := range event.Data.EmailAddresses {
		if addr.ID == event.Data.PrimaryEmailAddressID {
			return addr.EmailAddress
		}
	}
	if len(event.Data.EmailAddresses) > 0 {
		return event.Data.EmailAddresses[0].EmailAddress
	}
	return ""
}
