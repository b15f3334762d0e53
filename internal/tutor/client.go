// Package tutor asks an OpenRouter-compatible chat completion API for hints
// and worked solutions.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dont-rust-bro/drb/internal/models"
)

const (
	requestTimeout = 30 * time.Second
	maxTokens      = 1024
	temperature    = 0.7
)

// ErrNoAPIKey is returned when no tutor API key is configured.
var ErrNoAPIKey = errors.New("no tutor API key configured (set tutor.api_key or DRB_TUTOR_API_KEY)")

// Message is a chat message in OpenAI format.
type Message = models.ChatMessage

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to the chat completion endpoint.
type Client struct {
	http  *resty.Client
	model string
}

// New creates a tutor client from settings.
func New(cfg models.TutorConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = models.DefaultTutorModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = models.DefaultTutorURL
	}

	r := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(requestTimeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("HTTP-Referer", "https://dont-rust-bro.com").
		SetHeader("X-OpenRouter-Title", "dont-rust-bro").
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				return false
			}
			return resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= 500
		})

	return &Client{http: r, model: cfg.Model}, nil
}

// complete sends messages and returns the assistant's reply.
func (c *Client) complete(ctx context.Context, messages []Message) (string, error) {
	var result chatResponse
	var apiErr apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:       c.model,
			Messages:    messages,
			MaxTokens:   maxTokens,
			Temperature: temperature,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("tutor request failed: %w", err)
	}

	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return "", fmt.Errorf("API error (%d): %s", resp.StatusCode(), msg)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("API returned no choices")
	}
	return result.Choices[0].Message.Content, nil
}
