package handler

import (
	"net/http"

	"github.com/crt-lab/chatproxy/internal/service"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	chatService  *service.ChatService
	sinkAttached bool
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(svc *service.ChatService, sinkAttached bool) *HealthHandler {
	return &HealthHandler{
		chatService:  svc,
		sinkAttached: sinkAttached,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready. Degraded wiring is reported but still ready:
// the service answers with fallbacks even without a provider or sink.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":              "ready",
		"provider_configured": h.chatService.ProviderConfigured(),
		"sink_configured":     h.sinkAttached,
	})
}
