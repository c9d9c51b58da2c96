package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TobiSchelling/ContentForge/internal/logger"
)

// ExternalServiceError reports an LLM call that failed after every retry.
type ExternalServiceError struct {
	Provider string
	Attempts int
	Err      error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s failed after %d attempt(s): %v", e.Provider, e.Attempts, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

var errEmptyResponse = errors.New("empty response")

// Client is the retry and timeout boundary around a Provider. Each attempt
// gets its own timeout; a blank response counts as a failure.
type Client struct {
	provider Provider
	retries  int
	timeout  time.Duration
	backoff  time.Duration
	log      logger.Logger
}

type ClientOption func(*Client)

// WithBackoff sets the pause between attempts.
func WithBackoff(d time.Duration) ClientOption {
	return func(c *Client) { c.backoff = d }
}

func WithLogger(l logger.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

// NewClient wraps provider with retries extra attempts and a per-attempt timeout.
func NewClient(provider Provider, retries int, timeout time.Duration, opts ...ClientOption) *Client {
	c := &Client{
		provider: provider,
		retries:  retries,
		timeout:  timeout,
		backoff:  2 * time.Second,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete runs req against the provider, retrying on failure. When every
// attempt fails it returns an *ExternalServiceError wrapping the last error.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if c.provider == nil {
		return "", &ExternalServiceError{Provider: "none", Err: errors.New("no LLM provider configured")}
	}

	attempts := c.retries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		text, err := c.attempt(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err
		c.log.Warn(ctx, "%s attempt %d/%d failed: %v", c.provider.Name(), attempt, attempts, err)

		if attempt == attempts || ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
		case <-time.After(c.backoff * time.Duration(attempt)):
		}
	}
	return "", &ExternalServiceError{Provider: c.provider.Name(), Attempts: attempts, Err: lastErr}
}

func (c *Client) attempt(ctx context.Context, req Request) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	text, err := c.provider.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errEmptyResponse
	}
	return text, nil
}
