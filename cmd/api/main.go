package main

import (
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"atlas-assistant/internal/assistant"
	"atlas-assistant/internal/config"
	"atlas-assistant/internal/fetcher"
	"atlas-assistant/internal/http"
	"atlas-assistant/internal/llm"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	documentsConfigured := cfg.AtlasRawBase != "" && len(cfg.AtlasPaths) > 0
	if !documentsConfigured {
		slog.Warn("Atlas documents not configured; chat will answer with setup instructions")
	}
	if cfg.OpenAIAPIKey == "" {
		slog.Warn("OpenAI API key not configured; chat will answer with setup instructions")
	}

	docFetcher := fetcher.New(fetcher.WithTimeout(cfg.FetchTimeout))
	completer := llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)

	engine := assistant.NewEngine(assistant.Config{
		BaseURL:   cfg.AtlasRawBase,
		Paths:     cfg.AtlasPaths,
		HasAPIKey: cfg.OpenAIAPIKey != "",
	}, docFetcher, completer)
	slog.Info("Atlas assistant engine initialized", "documents", len(cfg.AtlasPaths), "model", completer.Model)

	router := http.NewRouter(&http.Deps{
		Engine:              engine,
		Fetcher:             docFetcher,
		AtlasRawBase:        cfg.AtlasRawBase,
		AtlasPaths:          cfg.AtlasPaths,
		DocumentsConfigured: documentsConfigured,
		APIKeyConfigured:    cfg.OpenAIAPIKey != "",
	})

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
