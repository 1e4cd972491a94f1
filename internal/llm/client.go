package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the OpenAI API root.
	DefaultBaseURL = "https://api.openai.com"
	// DefaultModel is used when no model override is configured.
	DefaultModel = "gpt-4.1-mini"
	// DefaultTimeout bounds a single completion call.
	DefaultTimeout = 30 * time.Second
)

// Client is a client for the OpenAI Responses API.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
}

// NewClient creates a new completion client. Empty baseURL and model fall
// back to the defaults.
func NewClient(baseURL, apiKey, model string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
}

// contentPart is one typed part of a message's content list.
type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// inputMessage is one turn of the prompt.
type inputMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

// responsesRequest is the request payload for the Responses API.
type responsesRequest struct {
	Model string         `json:"model"`
	Input []inputMessage `json:"input"`
}

// responsesResponse covers both known response shapes: a direct output_text
// field, or a structured output list of content parts.
type responsesResponse struct {
	OutputText string       `json:"output_text"`
	Output     []outputItem `json:"output"`
}

type outputItem struct {
	Content []contentPart `json:"content"`
}

// Complete submits a system/user prompt pair and returns the generated text.
// An empty string with a nil error means the model returned a response the
// extractor found no text in.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	url := fmt.Sprintf("%s/v1/responses", strings.TrimSuffix(c.BaseURL, "/"))

	payload := responsesRequest{
		Model: c.Model,
		Input: []inputMessage{
			{Role: "system", Content: []contentPart{{Type: "text", Text: systemPrompt}}},
			{Role: "user", Content: []contentPart{{Type: "text", Text: userPrompt}}},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed responsesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return extractResponseText(parsed), nil
}

// extractResponseText pulls the generated text out of either response shape.
// The direct output_text field wins; otherwise the output items' content
// parts of type "output_text" are joined with newlines.
func extractResponseText(resp responsesResponse) string {
	if resp.OutputText != "" {
		return strings.TrimSpace(resp.OutputText)
	}

	var parts []string
	for _, item := range resp.Output {
		for _, part := range item.Content {
			if part.Type == "output_text" && part.Text != "" {
				parts = append(parts, part.Text)
			}
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
