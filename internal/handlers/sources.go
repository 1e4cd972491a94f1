package handlers

import (
	"net/http"
	"unicode/utf8"

	"atlas-assistant/internal/assistant"
	"atlas-assistant/internal/atlas"
	"atlas-assistant/internal/contextutil"
	"atlas-assistant/internal/sources"
)

// SourcesHandler lists the configured atlas documents with display titles
// and chunking stats. It is a diagnostics surface: documents that fail to
// fetch are simply absent from the listing.
type SourcesHandler struct {
	fetcher   assistant.DocumentFetcher
	baseURL   string
	paths     []string
	chunkSize int
}

// NewSourcesHandler creates a new SourcesHandler.
func NewSourcesHandler(fetcher assistant.DocumentFetcher, baseURL string, paths []string, chunkSize int) *SourcesHandler {
	if chunkSize <= 0 {
		chunkSize = atlas.DefaultChunkSize
	}
	return &SourcesHandler{
		fetcher:   fetcher,
		baseURL:   baseURL,
		paths:     paths,
		chunkSize: chunkSize,
	}
}

// SourceInfo describes one fetched atlas document.
type SourceInfo struct {
	Path   string `json:"path"`
	Title  string `json:"title"`
	Chars  int    `json:"chars"`
	Chunks int    `json:"chunks"`
}

// SourcesResponse is the source listing payload.
type SourcesResponse struct {
	Sources []SourceInfo `json:"sources"`
}

// ServeHTTP handles HTTP requests for the source listing.
func (h *SourcesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	listing := SourcesResponse{Sources: []SourceInfo{}}
	if h.baseURL == "" || len(h.paths) == 0 {
		writeJSON(w, http.StatusOK, listing)
		return
	}

	docs, _ := h.fetcher.FetchAll(ctx, h.baseURL, h.paths)
	for _, doc := range docs {
		listing.Sources = append(listing.Sources, SourceInfo{
			Path:   doc.Path,
			Title:  sources.ExtractTitle([]byte(doc.Text), doc.Path),
			Chars:  utf8.RuneCountInString(doc.Text),
			Chunks: len(atlas.SplitIntoChunks(doc.Text, h.chunkSize)),
		})
	}

	writeJSON(w, http.StatusOK, listing)
}
