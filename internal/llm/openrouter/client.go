package openrouter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/yugant99/TaylorAI/internal/llm"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

// Client talks to the OpenRouter chat completions API.
type Client struct {
	http  *resty.Client
	model string
}

var _ llm.Client = (*Client)(nil)

// Option customizes the client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.http.SetBaseURL(strings.TrimRight(url, "/"))
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// New builds an OpenRouter client for the given API key and model.
func New(apiKey, model string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("openrouter: api key is required")
	}
	if model == "" {
		return nil, errors.New("openrouter: model is required")
	}

	httpClient := resty.New().
		SetBaseURL(defaultBaseURL).
		SetTimeout(120 * time.Second).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")

	c := &Client{http: httpClient, model: model}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Complete sends the prompt as a single user message and returns the
// assistant reply text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openrouter: request failed: %w", err)
	}

	if resp.StatusCode() != 200 {
		return "", &llm.StatusError{Status: resp.StatusCode(), Body: resp.String()}
	}

	content := gjson.GetBytes(resp.Body(), "choices.0.message.content")
	if !content.Exists() || strings.TrimSpace(content.String()) == "" {
		errMsg := gjson.GetBytes(resp.Body(), "error.message").String()
		if errMsg != "" {
			return "", fmt.Errorf("openrouter: api error: %s", errMsg)
		}
		return "", errors.New("openrouter: response contained no completion")
	}

	return content.String(), nil
}
