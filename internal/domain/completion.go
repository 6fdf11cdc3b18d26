package domain

import (
	"context"
	"fmt"
)

// Completer is the chat completion contract between the analysis usecase and
// a provider.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
}

// HealthChecker verifies provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CompletionRequest is one single-turn prompt.
type CompletionRequest struct {
	System string
	Prompt string
}

// CompletionResult carries the generated text and token usage through the decorator chain.
type CompletionResult struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Cached           bool
}

// TotalTokens returns prompt plus completion tokens.
func (r CompletionResult) TotalTokens() int { return r.PromptTokens + r.CompletionTokens }

// SystemCompleter is a domain decorator that sets the system message on every request
// that does not carry its own.
type SystemCompleter struct {
	inner  Completer
	system string
}

// NewSystemCompleter creates a decorator that fills in system.
func NewSystemCompleter(inner Completer, system string) *SystemCompleter {
	return &SystemCompleter{inner: inner, system: system}
}

// Complete fills in the system message and delegates.
func (c *SystemCompleter) Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error) {
	if req.System == "" {
		req.System = c.system
	}
	res, err := c.inner.Complete(ctx, req)
	if err != nil {
		return CompletionResult{}, fmt.Errorf("system complete: %w", err)
	}
	return res, nil
}
