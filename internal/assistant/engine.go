package assistant

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks atlas-assistant/internal/assistant Engine
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_collaborators.go -package=mocks atlas-assistant/internal/assistant DocumentFetcher,CompletionClient

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"atlas-assistant/internal/atlas"
	"atlas-assistant/internal/contextutil"
	"atlas-assistant/internal/fetcher"
)

// DocumentFetcher retrieves the configured atlas documents.
// This interface is defined from the engine's perspective (consumer-first).
type DocumentFetcher interface {
	// FetchAll returns the documents that could be retrieved, in path
	// order, plus the per-path failures that were absorbed.
	FetchAll(ctx context.Context, baseURL string, paths []string) ([]atlas.Document, []fetcher.Failure)
}

// CompletionClient is an opaque text-completion capability.
type CompletionClient interface {
	// Complete submits a system/user prompt pair and returns generated text.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Config holds the immutable pipeline settings, constructed once at startup.
type Config struct {
	// BaseURL is the raw-content root the document paths are resolved
	// against. Empty means the atlas is not configured.
	BaseURL string
	// Paths are the repository-relative document paths.
	Paths []string
	// HasAPIKey reports whether a completion API key is configured.
	HasAPIKey bool
	// ChunkSize is the chunk window size in runes (default 1000).
	ChunkSize int
	// TopK caps the number of chunks selected as evidence (default 5).
	TopK int
	// MinEvidence is the minimum combined rune length of selected chunks
	// required before answer generation is attempted (default 200).
	MinEvidence int
}

// Fixed answers for the degraded pipeline outcomes.
const (
	answerNotConfigured = "Atlas documents are not configured. Please set ATLAS_RAW_BASE and ATLAS_PATHS."
	answerInsufficient  = "I do not have enough Atlas information to answer that yet. Consider adding more country, framework, or theme markdown files that cover this topic."
	answerNoAPIKey      = "The assistant is not configured with an OpenAI API key. Please set OPENAI_API_KEY."
	answerModelError    = "There was an error contacting the language model."
	answerEmptyReply    = "The assistant did not return a response."
)

const systemPrompt = "You are the Atlas AI Assistant. Use the provided Atlas sources to answer questions about migration policy, political climate, and EU frameworks. Use short paragraphs, headings, and bullet points. Avoid long walls of text. Keep answers concise. If the sources are insufficient, say so and suggest which Atlas documents to add."

const defaultMinEvidence = 200

// Engine answers atlas questions by ranking document chunks against the
// question and forwarding the best evidence to the completion service.
type Engine interface {
	// Ask runs the retrieval pipeline for one question. Every outcome,
	// including degraded ones, is a well-formed response; the error is
	// reserved for failures the pipeline cannot absorb.
	Ask(ctx context.Context, req AskRequest) (AskResponse, error)
}

// engine implements Engine.
type engine struct {
	cfg       Config
	fetcher   DocumentFetcher
	completer CompletionClient
}

// NewEngine creates the pipeline engine. Zero-valued tuning fields in cfg
// are replaced with their defaults.
func NewEngine(cfg Config, docFetcher DocumentFetcher, completer CompletionClient) Engine {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = atlas.DefaultChunkSize
	}
	if cfg.TopK <= 0 {
		cfg.TopK = atlas.DefaultTopK
	}
	if cfg.MinEvidence <= 0 {
		cfg.MinEvidence = defaultMinEvidence
	}
	return &engine{
		cfg:       cfg,
		fetcher:   docFetcher,
		completer: completer,
	}
}

// Ask runs fetch, chunk, tokenize, score, threshold, and generation in order.
func (e *engine) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if e.cfg.BaseURL == "" || len(e.cfg.Paths) == 0 {
		logger.WarnContext(ctx, "atlas documents not configured")
		return AskResponse{Answer: answerNotConfigured, UsedSources: []string{}}, nil
	}

	docs, _ := e.fetcher.FetchAll(ctx, e.cfg.BaseURL, e.cfg.Paths)
	chunks := atlas.ChunkDocuments(docs, e.cfg.ChunkSize)
	tokens := atlas.Tokenize(req.Question)
	selected := atlas.SelectTopChunks(chunks, tokens, e.cfg.TopK)

	logger.InfoContext(ctx, "atlas retrieval completed",
		"documents", len(docs),
		"chunks", len(chunks),
		"tokens", len(tokens),
		"selected", len(selected),
	)

	if len(selected) == 0 || combinedRunes(selected) < e.cfg.MinEvidence {
		logger.InfoContext(ctx, "insufficient atlas evidence", "selected", len(selected))
		return AskResponse{Answer: answerInsufficient, UsedSources: []string{}}, nil
	}

	// Sources back every post-ranking outcome, so compute them before the
	// completion call is attempted.
	usedSources := dedupeSources(selected)

	if !e.cfg.HasAPIKey {
		logger.WarnContext(ctx, "completion API key not configured")
		return AskResponse{Answer: answerNoAPIKey, UsedSources: usedSources}, nil
	}

	userPrompt := buildUserPrompt(req.Question, selected)
	logger.DebugContext(ctx, "prompt assembled", "user_prompt_length", len(userPrompt), "sources", usedSources)

	answer, err := e.completer.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		logger.ErrorContext(ctx, "completion call failed", "error", err)
		return AskResponse{Answer: answerModelError, UsedSources: usedSources}, nil
	}
	if answer == "" {
		logger.WarnContext(ctx, "completion returned no text")
		answer = answerEmptyReply
	}

	logger.InfoContext(ctx, "question answered", "answer_length", len(answer), "sources", len(usedSources))
	return AskResponse{Answer: answer, UsedSources: usedSources}, nil
}

// buildUserPrompt embeds the question and the selected chunks, each labeled
// by its source path.
func buildUserPrompt(question string, selected []atlas.ScoredChunk) string {
	var contextBuilder strings.Builder
	for i, item := range selected {
		if i > 0 {
			contextBuilder.WriteString("\n\n")
		}
		contextBuilder.WriteString(fmt.Sprintf("Source: %s\n%s", item.Path, item.Text))
	}

	return fmt.Sprintf(
		"User question: %s\n\nAtlas sources:\n%s\n\nAnswer the question and include a %q list based on the provided sources.",
		question, contextBuilder.String(), "Sources (Atlas)",
	)
}

// combinedRunes is the total evidence length of the selected chunks.
func combinedRunes(selected []atlas.ScoredChunk) int {
	total := 0
	for _, item := range selected {
		total += utf8.RuneCountInString(item.Text)
	}
	return total
}

// dedupeSources lists the selected chunks' paths, deduplicated in selection
// order.
func dedupeSources(selected []atlas.ScoredChunk) []string {
	sources := make([]string, 0, len(selected))
	seen := make(map[string]struct{}, len(selected))
	for _, item := range selected {
		if _, ok := seen[item.Path]; ok {
			continue
		}
		seen[item.Path] = struct{}{}
		sources = append(sources, item.Path)
	}
	return sources
}
