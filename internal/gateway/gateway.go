// Package gateway is the single network boundary of the planner: a
// synchronous prompt-in, text-out call to an OpenAI-compatible chat
// completion endpoint. Every model call in the application goes through
// Complete, exactly once per need — there is no retry policy.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"trip-planner/internal/activity"
)

// ErrNoCredential indicates no API key was configured
var ErrNoCredential = errors.New("no API key configured")

// Error wraps a credential or transport/API failure. Callers must treat it
// as "degrade gracefully" — a failed call never crashes a turn.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("completion gateway %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Request carries one completion call's parameters
type Request struct {
	System      string
	User        string
	Model       string
	Temperature float64
	MaxTokens   int64
}

// Completer is the narrow interface every agent depends on. Tests provide
// stubs; production code uses *Client.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Config holds gateway construction parameters
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client calls an OpenAI-compatible completion endpoint
type Client struct {
	api     openai.Client
	hasKey  bool
	timeout time.Duration
	log     *activity.Log
}

// NewClient creates a gateway client. A missing API key is not fatal here:
// each Complete call will fail with a credential Error instead, so the rest
// of the application can degrade per call.
func NewClient(cfg Config, log *activity.Log) *Client {
	opts := []option.RequestOption{}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		api:     openai.NewClient(opts...),
		hasKey:  cfg.APIKey != "",
		timeout: timeout,
		log:     log,
	}
}

// Complete performs one chat completion call and returns the response text
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if !c.hasKey {
		c.record("error", "missing credential")
		return "", &Error{Op: "complete", Err: ErrNoCredential}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.record("llm call", fmt.Sprintf("model=%s temp=%.1f", req.Model, req.Temperature))

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		c.record("api error", err.Error())
		return "", &Error{Op: "complete", Err: err}
	}
	if len(resp.Choices) == 0 {
		c.record("api error", "empty response")
		return "", &Error{Op: "complete", Err: errors.New("completion returned no choices")}
	}

	return resp.Choices[0].Message.Content, nil
}

// Ping verifies the endpoint is reachable and the credential is accepted.
// Used once at startup; turn processing never calls it.
func (c *Client) Ping(ctx context.Context) error {
	if !c.hasKey {
		return &Error{Op: "ping", Err: ErrNoCredential}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := c.api.Models.List(ctx); err != nil {
		return &Error{Op: "ping", Err: err}
	}
	return nil
}

func (c *Client) record(action, detail string) {
	if c.log != nil {
		c.log.Record("gateway", action, detail)
	}
}
