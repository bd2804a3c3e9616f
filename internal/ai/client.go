// Package ai adapts the Anthropic Messages API to the interview service's
// completion contract.
package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/haridaggupatti/sb1-hyd/internal/interview"
	"github.com/haridaggupatti/sb1-hyd/internal/transport"
)

// Sampling parameters are fixed. The goal is varied, non-repetitive,
// persona-consistent short answers; interview replies should never approach
// the output token limit.
const (
	maxOutputTokens = 1024
	temperature     = 0.9
	topP            = 0.95
)

// DefaultModel is used when no model is configured
const DefaultModel = anthropic.ModelClaudeSonnet4_0

// Client implements interview.Completer against the Anthropic Messages API
type Client struct {
	client  anthropic.Client
	model   anthropic.Model
	timeout time.Duration
}

// NewClient creates a completion client. A zero timeout disables the per-call
// deadline.
func NewClient(apiKey string, model anthropic.Model, timeout time.Duration) *Client {
	if model == "" {
		model = DefaultModel
	}
	httpClient := &http.Client{
		Transport: transport.WithRateLimiting(nil),
	}
	return &Client{
		client: anthropic.NewClient(
			option.WithHTTPClient(httpClient),
			option.WithAPIKey(apiKey),
		),
		model:   model,
		timeout: timeout,
	}
}

// Complete sends the transcript to the model and returns the generated text.
// There is one request per exchange and no automatic retry; any transport
// failure or deadline expiry is returned to the caller.
func (c *Client) Complete(ctx context.Context, history []interview.Turn) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params, err := buildParams(c.model, history)
	if err != nil {
		return "", err
	}

	stream := c.client.Messages.NewStreaming(ctx, params)
	response := anthropic.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := response.Accumulate(event); err != nil {
			return "", fmt.Errorf("failed to accumulate response content stream: %w", err)
		}
	}
	if stream.Err() != nil {
		return "", fmt.Errorf("failed to stream response: %w", stream.Err())
	}
	if response.StopReason == "" {
		return "", fmt.Errorf("malformed response: missing stop reason")
	}

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(text.String()), nil
}

// buildParams converts a transcript into Messages API parameters. The leading
// system turn becomes the system prompt block; the rest alternate as user and
// assistant messages.
func buildParams(model anthropic.Model, history []interview.Turn) (anthropic.MessageNewParams, error) {
	params := anthropic.MessageNewParams{
		Model:       model,
		MaxTokens:   maxOutputTokens,
		Temperature: anthropic.Float(temperature),
		TopP:        anthropic.Float(topP),
	}

	messages := []anthropic.MessageParam{}
	for i, turn := range history {
		switch turn.Role {
		case interview.RoleSystem:
			if i != 0 {
				return anthropic.MessageNewParams{}, fmt.Errorf("system turn at position %d, expected position 0", i)
			}
			params.System = []anthropic.TextBlockParam{{Text: turn.Content}}
		case interview.RoleUser:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(turn.Content)))
		case interview.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(turn.Content)))
		default:
			return anthropic.MessageNewParams{}, fmt.Errorf("unknown role %q", turn.Role)
		}
	}
	params.Messages = messages

	return params, nil
}
