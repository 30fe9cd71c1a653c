// Package completion is the boundary to hosted free-form completion
// services. Callers treat every provider as "returns text or fails".
package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrDisabled is returned when no provider is configured.
	ErrDisabled = errors.New("completion disabled")
	// ErrEmpty is returned when a provider answers with no content.
	ErrEmpty = errors.New("empty completion")
	// ErrMissingKey is returned when a provider is selected without an API key.
	ErrMissingKey = errors.New("api key is required")
)

// Request is one system+user completion request.
type Request struct {
	System      string  `json:"system"`
	User        string  `json:"user"`
	Temperature float32 `json:"temperature"`
	JSON        bool    `json:"json"` // Ask the provider for a JSON object response
}

// Completer produces a completion for a request.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

// Provider names accepted by New.
const (
	ProviderNone   = "none"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Options selects and configures a provider.
type Options struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// New builds the completer named by opts.Provider. ProviderNone (or "")
// yields Disabled.
func New(ctx context.Context, opts Options) (Completer, error) {
	switch strings.ToLower(opts.Provider) {
	case "", ProviderNone:
		return Disabled{}, nil
	case ProviderOpenAI:
		return NewOpenAIClient(opts)
	case ProviderGemini:
		return NewGeminiClient(ctx, opts)
	default:
		return nil, fmt.Errorf("unknown completion provider %q", opts.Provider)
	}
}

// Disabled is the completer used when no provider is configured.
type Disabled struct{}

func (Disabled) Complete(context.Context, Request) (string, error) { return "", ErrDisabled }
func (Disabled) Name() string                                     { return ProviderNone }

// IsDisabled reports whether c cannot produce completions at all.
func IsDisabled(c Completer) bool {
	if c == nil {
		return true
	}
	_, ok := c.(Disabled)
	return ok
}

// withDeadline applies timeout when ctx has no deadline of its own.
func withDeadline(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func logger(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
