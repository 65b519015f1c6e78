package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/skburgers/backend/pkg/config"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
)

// Client calls an OpenAI-compatible chat completions endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the completions client. An empty API key is allowed; calls
// will fail and the callers degrade to no suggestion.
func NewClient(cfg config.OpenAIConfig, opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends one system+user exchange and returns the raw completion text.
func (c *Client) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	if c.apiKey == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "completion api key not configured")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.4,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build completion request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call completion api")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("completion api returned status %d", resp.StatusCode))
	}

	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode completion response")
	}
	if len(payload.Choices) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "completion api returned no choices")
	}
	return strings.TrimSpace(payload.Choices[0].Message.Content), nil
}
