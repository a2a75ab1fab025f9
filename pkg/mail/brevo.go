package mail

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
	smtpEmailURL   = "https://api.brevo.com/v3/smtp/email"
	requestTimeout = 30 * time.Second
)

// Client sends transactional email through the Brevo REST API.
type Client struct {
	apiKey      string
	senderName  string
	senderEmail string
	baseURL     string
	httpClient  *http.Client
}

// NewClient creates a Brevo client from config.
func NewClient(cfg *config.MailConfig) *Client {
	return &Client{
		apiKey:      cfg.BrevoAPIKey,
		senderName:  cfg.SenderName,
		senderEmail: cfg.SenderEmail,
		baseURL:     smtpEmailURL,
		httpClient:  &http.Client{Timeout: requestTimeout},
	}
}

// WithBaseURL overrides the API endpoint. Used in tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

type emailAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type sendRequest struct {
	Sender      emailAddress   `json:"sender"`
	To          []emailAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
	Type        string         `json:"type"`
}

type sendResponse struct {
	MessageID string `json:"messageId"`
}

// Send dispatches one HTML email and returns the provider message id.
func (c *Client) Send(ctx context.Context, to, subject, htmlContent string) (string, error) {
	body, err := json.Marshal(sendRequest{
		Sender:      emailAddress{Name: c.senderName, Email: c.senderEmail},
		To:          []emailAddress{{Email: to}},
		Subject:     subject,
		HTMLContent: htmlContent,
		Type:        "classic",
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("brevo request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("brevo API error: %s", string(data))
	}

	var parsed sendResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse brevo response: %w", err)
	}

	return parsed.MessageID, nil
}
