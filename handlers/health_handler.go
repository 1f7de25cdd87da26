package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/upb/drivel-server/utils"
)

// ProviderStatus reports the construction state of each provider client
type ProviderStatus interface {
	Status() map[string]string
	ListProviders() []string
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// StatusResponse describes the running service
type StatusResponse struct {
	Version     string   `json:"version"`
	Environment string   `json:"environment"`
	Providers   []string `json:"providers"`
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	providers   ProviderStatus
	version     string
	environment string
	logger      *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(providers ProviderStatus, version, environment string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		providers:   providers,
		version:     version,
		environment: environment,
		logger:      logger,
	}
}

// HandleHealth handles GET /healthz
// Always returns 200 if the process is serving.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, HealthResponse{Status: "ok"})
}

// HandleReadiness handles GET /readyz
// Provider clients are built on first use, so an uninitialized client does
// not make the service unready. The checks only report each client's state.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	checks := h.providers.Status()

	h.logger.Debug("readiness check", zap.Any("checks", checks))

	_ = utils.WriteOK(w, HealthResponse{
		Status:    "ready",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// HandleStatus handles GET /status
func (h *HealthHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, StatusResponse{
		Version:     h.version,
		Environment: h.environment,
		Providers:   h.providers.ListProviders(),
	})
}
