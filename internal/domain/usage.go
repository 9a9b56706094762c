package domain

import (
	"context"
	"sync"
)

type requestUsageKey struct{}

// RequestUsage collects provider usage for a single search request.
// The handler installs it in the context, collaborators add to it, and the
// handler reports it in response headers.
type RequestUsage struct {
	mu              sync.Mutex
	embeddingTokens int
	llmTokens       int
	llmCalled       bool
}

// NewContextWithUsage returns a context carrying a fresh usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *RequestUsage) {
	u := &RequestUsage{}
	return context.WithValue(ctx, requestUsageKey{}, u), u
}

// UsageFromContext returns the collector, or nil when none is installed.
// All methods are nil-safe.
func UsageFromContext(ctx context.Context) *RequestUsage {
	u, _ := ctx.Value(requestUsageKey{}).(*RequestUsage)
	return u
}

// AddEmbeddingTokens records embedding tokens.
func (u *RequestUsage) AddEmbeddingTokens(n int) {
	if u == nil {
		return
	}
	u.mu.Lock()
	u.embeddingTokens += n
	u.mu.Unlock()
}

// AddLLMTokens records a language model call and its tokens.
func (u *RequestUsage) AddLLMTokens(n int) {
	if u == nil {
		return
	}
	u.mu.Lock()
	u.llmTokens += n
	u.llmCalled = true
	u.mu.Unlock()
}

// EmbeddingTokens returns the recorded embedding tokens.
func (u *RequestUsage) EmbeddingTokens() int {
	if u == nil {
		return 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.embeddingTokens
}

// LLMTokens returns the recorded language model tokens.
func (u *RequestUsage) LLMTokens() int {
	if u == nil {
		return 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.llmTokens
}

// LLMCalled reports whether the language model was consulted.
func (u *RequestUsage) LLMCalled() bool {
	if u == nil {
		return false
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.llmCalled
}
