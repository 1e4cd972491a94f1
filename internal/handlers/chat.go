package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"atlas-assistant/internal/assistant"
	"atlas-assistant/internal/contextutil"
)

// ChatHandler handles HTTP requests for atlas questions.
type ChatHandler struct {
	engine assistant.Engine
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(engine assistant.Engine) *ChatHandler {
	return &ChatHandler{engine: engine}
}

// ChatRequest represents the HTTP request payload for a question.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse represents the HTTP response payload for an answer.
type ChatResponse struct {
	Answer      string   `json:"answer"`
	UsedSources []string `json:"used_sources"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP handles HTTP requests for atlas questions. Preflight OPTIONS
// requests are answered by the CORS middleware before reaching here; any
// method other than POST is not found, matching the public API contract.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "unsupported method on chat endpoint", "method", r.Method)
		http.NotFound(w, r)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		logger.WarnContext(ctx, "empty message in request")
		writeError(w, http.StatusBadRequest, "Message is required.")
		return
	}

	resp, err := h.engine.Ask(ctx, assistant.AskRequest{Question: message})
	if err != nil {
		logger.ErrorContext(ctx, "failed to process question", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process question")
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Answer:      resp.Answer,
		UsedSources: resp.UsedSources,
	})
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message})
}
