package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIProvider talks to the OpenAI chat completions API. It also serves
// any OpenAI-compatible endpoint when constructed with a custom base URL.
type OpenAIProvider struct {
	name    string
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAIProvider creates a provider for the OpenAI API. baseURL may be
// empty to use the official endpoint.
func NewOpenAIProvider(apiKey, model, baseURL string) *OpenAIProvider {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &OpenAIProvider{
		name:    "openai",
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string { return p.name }

// chatRequest is the wire format for the chat completions endpoint.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Summarize condenses the article text via the chat completions API.
func (p *OpenAIProvider) Summarize(ctx context.Context, req SummarizeRequest) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("%s: api key not configured", p.name)
	}

	maxSentences := req.MaxSentences
	if maxSentences <= 0 {
		maxSentences = 3
	}

	system := fmt.Sprintf(
		"You summarize saved web articles for a read-it-later app. "+
			"Reply with a plain-text summary of at most %d sentences in the article's language. "+
			"No preamble, no markdown.", maxSentences)

	user := req.Text
	if req.Title != "" {
		user = "Title: " + req.Title + "\n\n" + req.Text
	}

	body, err := json.Marshal(chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.3,
		MaxTokens:   512,
	})
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", p.name, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", p.name, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%s: request failed: %w", p.name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%s: read response: %w", p.name, err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%s: decode response (status %d): %w", p.name, resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%s: api error: %s", p.name, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: unexpected status %d", p.name, resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%s: empty response", p.name)
	}

	return parsed.Choices[0].Message.Content, nil
}
