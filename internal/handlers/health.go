package handlers

import (
	"net/http"
	"time"

	"atlas-assistant/internal/contextutil"
)

// HealthHandler reports process liveness and which capabilities are
// configured. It never probes the document origin or the completion API;
// both are absorbed per request, so a degraded capability is reported, not
// a failing health check.
type HealthHandler struct {
	documentsConfigured bool
	apiKeyConfigured    bool
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(documentsConfigured, apiKeyConfigured bool) *HealthHandler {
	return &HealthHandler{
		documentsConfigured: documentsConfigured,
		apiKeyConfigured:    apiKeyConfigured,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// ServeHTTP handles HTTP requests for health checks.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	checks := map[string]string{
		"atlas_documents": "missing",
		"openai_api_key":  "missing",
	}
	if h.documentsConfigured {
		checks["atlas_documents"] = "ok"
	}
	if h.apiKeyConfigured {
		checks["openai_api_key"] = "ok"
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}
