package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/centra-hq/centra-console/pkg/billing"
)

// CheckoutRequest is the body of a checkout request. The fields are
// advisory; only one plan exists today.
type CheckoutRequest struct {
	Plan         string `json:"plan"`
	BillingCycle string `json:"billingCycle"`
}

// CheckoutHandler opens embedded checkout sessions.
type CheckoutHandler struct {
	provider billing.Provider
	baseURL  string
	logger   *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler. provider is nil when no
// payment credential is configured; checkout then responds 503.
func NewCheckoutHandler(provider billing.Provider, baseURL string, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		provider: provider,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// RegisterRoutes registers the checkout handler's routes on the given mux.
func (h *CheckoutHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/checkout", h.CreateCheckout)
}

// CreateCheckout handles POST /api/checkout requests.
func (h *CheckoutHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		_ = ErrorResponse(w, http.StatusServiceUnavailable, "not_configured",
			"Payments are not configured")
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = h.baseURL
	}

	session, err := h.provider.CreateEmbeddedCheckout(r.Context(), origin)
	if err != nil {
		h.logger.Error("Failed to create checkout session",
			zap.String("plan", req.Plan),
			zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "checkout_failed",
			"Failed to create checkout session")
		return
	}

	if err := WriteJSON(w, http.StatusOK, session); err != nil {
		h.logger.Error("Failed to encode checkout response", zap.Error(err))
	}
}
