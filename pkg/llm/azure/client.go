// Package azure implements the llm.Completer interface for Azure OpenAI
// deployment-scoped chat completions endpoints.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/user/claimsportal/pkg/llm"
)

// Config holds the settings for one Azure OpenAI deployment.
type Config struct {
	Endpoint    string
	APIKey      string
	Deployment  string
	APIVersion  string
	MaxTokens   int
	Temperature float32
	TopP        float32
	Timeout     time.Duration
}

// Client sends chat completion requests to a single Azure OpenAI deployment.
// It performs exactly one POST per call and never retries.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// New creates a client for the given deployment configuration.
func New(config *Config) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// chatRequest is the Azure OpenAI chat completions request body. The penalty
// fields are always sent, fixed at zero.
type chatRequest struct {
	Messages         []llm.Message `json:"messages"`
	MaxTokens        int           `json:"max_tokens"`
	Temperature      float32       `json:"temperature"`
	TopP             float32       `json:"top_p"`
	FrequencyPenalty float32       `json:"frequency_penalty"`
	PresencePenalty  float32       `json:"presence_penalty"`
}

// chatResponse is the subset of the chat completions response we consume.
type chatResponse struct {
	Choices []choice `json:"choices"`
}

type choice struct {
	Message responseMessage `json:"message"`
}

type responseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// URL returns the deployment-scoped chat completions endpoint.
func (c *Client) URL() string {
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(c.config.Endpoint, "/"), c.config.Deployment, c.config.APIVersion)
}

// Complete sends a chat completion request and returns the text content of
// the first choice. On a non-success HTTP status, the returned error carries
// the status code and response body.
func (c *Client) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	reqBody := chatRequest{
		Messages:    messages,
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
		TopP:        c.config.TopP,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return chatResp.Choices[0].Message.Content, nil
}
