package domain

import "errors"

var (
	// ErrInvalidQuery signals an empty or oversized query text.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrStoreUnavailable signals a structured store failure.
	ErrStoreUnavailable = errors.New("structured store unavailable")
	// ErrIndexUnavailable signals a semantic index failure.
	ErrIndexUnavailable = errors.New("semantic index unavailable")
	// ErrUnsafeQuery signals a raw statement that is not a single read-only SELECT.
	ErrUnsafeQuery = errors.New("unsafe structured query")
	// ErrLLMUnavailable signals that the language model could not be reached.
	ErrLLMUnavailable = errors.New("language model unavailable")
	// ErrLLMResponse signals an unparseable language model answer.
	ErrLLMResponse = errors.New("malformed language model response")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
