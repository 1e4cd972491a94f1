package assistant_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"atlas-assistant/internal/assistant"
	"atlas-assistant/internal/assistant/mocks"
	"atlas-assistant/internal/atlas"
	"atlas-assistant/internal/fetcher"
)

// evidenceText builds document text that matches the given token and
// comfortably clears the 200-rune evidence threshold.
func evidenceText(token string) string {
	return strings.Repeat(token+" reception policy framework overview detail ", 10)
}

func TestEngine_Ask(t *testing.T) {
	cfg := assistant.Config{
		BaseURL:   "https://raw.example.org/atlas",
		Paths:     []string{"countries/italy.md", "frameworks/ceas.md"},
		HasAPIKey: true,
	}

	tests := []struct {
		name         string
		cfg          assistant.Config
		question     string
		mockSetup    func(*mocks.MockDocumentFetcher, *mocks.MockCompletionClient)
		wantAnswer   string
		wantContains string
		wantSources  []string
	}{
		{
			name:     "missing base URL returns configuration answer",
			cfg:      assistant.Config{Paths: []string{"a.md"}},
			question: "What is CEAS?",
			mockSetup: func(f *mocks.MockDocumentFetcher, c *mocks.MockCompletionClient) {
				// No fetch or completion expected.
			},
			wantContains: "not configured",
			wantSources:  []string{},
		},
		{
			name:     "missing paths returns configuration answer",
			cfg:      assistant.Config{BaseURL: "https://raw.example.org"},
			question: "What is CEAS?",
			mockSetup: func(f *mocks.MockDocumentFetcher, c *mocks.MockCompletionClient) {
			},
			wantContains: "ATLAS_RAW_BASE and ATLAS_PATHS",
			wantSources:  []string{},
		},
		{
			name:     "empty documents yield insufficient evidence",
			cfg:      cfg,
			question: "What is the asylum procedure?",
			mockSetup: func(f *mocks.MockDocumentFetcher, c *mocks.MockCompletionClient) {
				f.EXPECT().
					FetchAll(gomock.Any(), cfg.BaseURL, cfg.Paths).
					Return([]atlas.Document{{Path: "countries/italy.md", Text: ""}}, nil)
			},
			wantContains: "do not have enough Atlas information",
			wantSources:  []string{},
		},
		{
			name:     "short matching evidence stays below threshold",
			cfg:      cfg,
			question: "What is the asylum procedure?",
			mockSetup: func(f *mocks.MockDocumentFetcher, c *mocks.MockCompletionClient) {
				f.EXPECT().
					FetchAll(gomock.Any(), cfg.BaseURL, cfg.Paths).
					Return([]atlas.Document{{Path: "countries/italy.md", Text: "asylum"}}, nil)
			},
			wantContains: "do not have enough Atlas information",
			wantSources:  []string{},
		},
		{
			name: "missing API key preserves ranked sources",
			cfg: assistant.Config{
				BaseURL: cfg.BaseURL,
				Paths:   cfg.Paths,
			},
			question: "What is the asylum procedure?",
			mockSetup: func(f *mocks.MockDocumentFetcher, c *mocks.MockCompletionClient) {
				f.EXPECT().
					FetchAll(gomock.Any(), cfg.BaseURL, cfg.Paths).
					Return([]atlas.Document{{Path: "countries/italy.md", Text: evidenceText("asylum")}}, nil)
			},
			wantContains: "OPENAI_API_KEY",
			wantSources:  []string{"countries/italy.md"},
		},
		{
			name:     "completion failure preserves ranked sources",
			cfg:      cfg,
			question: "What is the asylum procedure?",
			mockSetup: func(f *mocks.MockDocumentFetcher, c *mocks.MockCompletionClient) {
				f.EXPECT().
					FetchAll(gomock.Any(), cfg.BaseURL, cfg.Paths).
					Return([]atlas.Document{{Path: "countries/italy.md", Text: evidenceText("asylum")}}, nil)
				c.EXPECT().
					Complete(gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", errors.New("connection refused"))
			},
			wantAnswer:  "There was an error contacting the language model.",
			wantSources: []string{"countries/italy.md"},
		},
		{
			name:     "empty completion text gets the fixed fallback",
			cfg:      cfg,
			question: "What is the asylum procedure?",
			mockSetup: func(f *mocks.MockDocumentFetcher, c *mocks.MockCompletionClient) {
				f.EXPECT().
					FetchAll(gomock.Any(), cfg.BaseURL, cfg.Paths).
					Return([]atlas.Document{{Path: "countries/italy.md", Text: evidenceText("asylum")}}, nil)
				c.EXPECT().
					Complete(gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", nil)
			},
			wantAnswer:  "The assistant did not return a response.",
			wantSources: []string{"countries/italy.md"},
		},
		{
			name:     "successful generation with deduplicated sources",
			cfg:      cfg,
			question: "How does the asylum procedure work?",
			mockSetup: func(f *mocks.MockDocumentFetcher, c *mocks.MockCompletionClient) {
				f.EXPECT().
					FetchAll(gomock.Any(), cfg.BaseURL, cfg.Paths).
					Return([]atlas.Document{
						{Path: "countries/italy.md", Text: evidenceText("asylum") + strings.Repeat("x", 1000) + evidenceText("procedure")},
						{Path: "frameworks/ceas.md", Text: evidenceText("asylum procedure")},
					}, nil)
				c.EXPECT().
					Complete(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, system, user string) (string, error) {
						if !strings.Contains(system, "Atlas AI Assistant") {
							t.Errorf("system prompt missing assistant role: %q", system)
						}
						if !strings.Contains(user, "User question: How does the asylum procedure work?") {
							t.Errorf("user prompt missing question: %q", user)
						}
						if !strings.Contains(user, "Source: countries/italy.md") {
							t.Errorf("user prompt missing source label: %q", user)
						}
						if !strings.Contains(user, `"Sources (Atlas)"`) {
							t.Errorf("user prompt missing sources instruction: %q", user)
						}
						return "Asylum claims are processed under CEAS.", nil
					})
			},
			wantAnswer:  "Asylum claims are processed under CEAS.",
			wantSources: []string{"frameworks/ceas.md", "countries/italy.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockFetcher := mocks.NewMockDocumentFetcher(ctrl)
			mockCompleter := mocks.NewMockCompletionClient(ctrl)
			tt.mockSetup(mockFetcher, mockCompleter)

			engine := assistant.NewEngine(tt.cfg, mockFetcher, mockCompleter)
			resp, err := engine.Ask(context.Background(), assistant.AskRequest{Question: tt.question})
			if err != nil {
				t.Fatalf("Ask() error = %v", err)
			}

			if tt.wantAnswer != "" && resp.Answer != tt.wantAnswer {
				t.Errorf("Ask() answer = %q, want %q", resp.Answer, tt.wantAnswer)
			}
			if tt.wantContains != "" && !strings.Contains(resp.Answer, tt.wantContains) {
				t.Errorf("Ask() answer = %q, want it to contain %q", resp.Answer, tt.wantContains)
			}
			if !reflect.DeepEqual(resp.UsedSources, tt.wantSources) {
				t.Errorf("Ask() used sources = %v, want %v", resp.UsedSources, tt.wantSources)
			}
		})
	}
}

func TestEngine_Ask_EmptyQuestionTokens(t *testing.T) {
	// A question made only of short words produces zero tokens, so no chunk
	// can score and the insufficient-evidence answer triggers.
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := assistant.Config{
		BaseURL:   "https://raw.example.org",
		Paths:     []string{"a.md"},
		HasAPIKey: true,
	}
	mockFetcher := mocks.NewMockDocumentFetcher(ctrl)
	mockFetcher.EXPECT().
		FetchAll(gomock.Any(), cfg.BaseURL, cfg.Paths).
		Return([]atlas.Document{{Path: "a.md", Text: evidenceText("anything")}}, []fetcher.Failure{})

	engine := assistant.NewEngine(cfg, mockFetcher, mocks.NewMockCompletionClient(ctrl))
	resp, err := engine.Ask(context.Background(), assistant.AskRequest{Question: "is it ok"})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if !strings.Contains(resp.Answer, "do not have enough Atlas information") {
		t.Errorf("Ask() answer = %q, want insufficient-evidence text", resp.Answer)
	}
	if len(resp.UsedSources) != 0 {
		t.Errorf("Ask() used sources = %v, want empty", resp.UsedSources)
	}
}
