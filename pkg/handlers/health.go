package handlers

import (
	"context"
	"net/http"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/centra-hq/centra-console/pkg/config"
	"github.com/centra-hq/centra-console/pkg/models"
)

// PingResponse contains service status and version information.
type PingResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Service     string `json:"service"`
	GoVersion   string `json:"go_version"`
	Hostname    string `json:"hostname"`
	Environment string `json:"environment"`
}

// healthChecker probes the upstream routing services.
type healthChecker interface {
	Health(ctx context.Context) []models.HealthCheck
}

// HealthHandler handles liveness, ping and system health endpoints.
type HealthHandler struct {
	cfg     *config.Config
	checker healthChecker
	logger  *zap.Logger
}

// NewHealthHandler creates a new HealthHandler with the given configuration.
func NewHealthHandler(cfg *config.Config, checker healthChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{cfg: cfg, checker: checker, logger: logger}
}

// RegisterRoutes registers the health handler's routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/ping", h.Ping)
	mux.HandleFunc("GET /api/system/health", h.SystemHealth)
}

// Health handles GET /health requests.
// Returns a simple "ok" status for load balancer health checks.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ping handles GET /ping requests.
// Returns detailed service information including version and environment.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	hostname, err := os.Hostname()
	if err != nil {
		http.Error(w, "failed to get hostname", http.StatusInternalServerError)
		return
	}

	response := PingResponse{
		Status:      "ok",
		Version:     h.cfg.Version,
		Service:     "centra-console",
		GoVersion:   runtime.Version(),
		Hostname:    hostname,
		Environment: h.cfg.Env,
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode ping response", zap.Error(err))
	}
}

// SystemHealth handles GET /api/system/health requests.
// Probes all five routing services concurrently and reports their status.
// Always responds 200; per-service failures show up as unhealthy entries.
func (h *HealthHandler) SystemHealth(w http.ResponseWriter, r *http.Request) {
	checks := h.checker.Health(r.Context())
	if err := WriteJSON(w, http.StatusOK, checks); err != nil {
		h.logger.Error("Failed to encode system health response", zap.Error(err))
	}
}
