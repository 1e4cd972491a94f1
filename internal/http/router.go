package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"atlas-assistant/internal/assistant"
	"atlas-assistant/internal/handlers"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine              assistant.Engine
	Fetcher             assistant.DocumentFetcher
	AtlasRawBase        string
	AtlasPaths          []string
	ChunkSize           int
	DocumentsConfigured bool
	APIKeyConfigured    bool
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)
	r.Use(CORS)

	chatHandler := handlers.NewChatHandler(deps.Engine)
	sourcesHandler := handlers.NewSourcesHandler(deps.Fetcher, deps.AtlasRawBase, deps.AtlasPaths, deps.ChunkSize)
	healthHandler := handlers.NewHealthHandler(deps.DocumentsConfigured, deps.APIKeyConfigured)

	r.Route("/api", func(r chi.Router) {
		// The chat handler owns its method dispatch: non-POST is 404 per
		// the public API contract, so it is registered for all methods.
		r.Handle("/chat", chatHandler)
		r.Method(http.MethodGet, "/sources", sourcesHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
