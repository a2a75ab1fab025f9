package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/abdul-maxwell/zetech-smart-attend/config"
)

const (
	chatCompletionsURL = "https://api.openai.com/v1/chat/completions"
	requestTimeout     = 30 * time.Second
	maxTokens          = 1000

	systemPrompt = "You are a helpful assistant that generates professional email content. Return only the email body content in HTML format."
)

// Client calls the OpenAI chat completions API to draft email bodies.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an OpenAI client from config.
func NewClient(cfg *config.AIConfig) *Client {
	return &Client{
		apiKey:     cfg.OpenAIAPIKey,
		model:      cfg.Model,
		baseURL:    chatCompletionsURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// WithBaseURL overrides the API endpoint. Used in tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GenerateEmailBody asks the model for an HTML email body for the prompt.
func (c *Client) GenerateEmailBody(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to generate AI content: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse openai response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response contains no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
