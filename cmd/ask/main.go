// Command ask runs a single question through the atlas pipeline from the
// terminal, using the same configuration as the API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"atlas-assistant/internal/assistant"
	"atlas-assistant/internal/config"
	"atlas-assistant/internal/fetcher"
	"atlas-assistant/internal/llm"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	answerStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	sourceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses atlas.yaml if present)")
	flag.Parse()

	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" {
		fmt.Println("Usage: ask [--config=atlas.yaml] your question about the atlas")
		os.Exit(1)
	}

	var cfg *config.Config
	var err error
	if cfgPath == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFile(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Keep pipeline logging out of the terminal output.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	engine := assistant.NewEngine(assistant.Config{
		BaseURL:   cfg.AtlasRawBase,
		Paths:     cfg.AtlasPaths,
		HasAPIKey: cfg.OpenAIAPIKey != "",
	},
		fetcher.New(fetcher.WithTimeout(cfg.FetchTimeout)),
		llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel),
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout+cfg.CompleteTimeout)
	defer cancel()

	resp, err := engine.Ask(ctx, assistant.AskRequest{Question: question})
	if err != nil {
		log.Fatalf("failed to answer question: %v", err)
	}

	fmt.Println(headerStyle.Render("Atlas Assistant"))
	fmt.Println(answerStyle.Render(resp.Answer))
	if len(resp.UsedSources) > 0 {
		fmt.Println(headerStyle.Render("Sources (Atlas)"))
		for _, source := range resp.UsedSources {
			fmt.Println(sourceStyle.Render("  - " + source))
		}
	}
}
