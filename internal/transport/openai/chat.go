// Package openai talks to OpenAI-compatible APIs: embeddings for the semantic
// index and chat completions for the routing fallback.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/rosterdex/internal/domain"
	"github.com/kailas-cloud/rosterdex/internal/metrics"
)

// ChatConfig holds the language model settings.
type ChatConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration

	// RatePerSecond and Burst bound outgoing calls. Zero disables limiting.
	RatePerSecond float64
	Burst         int

	// BreakerFailures consecutive failures open the circuit for BreakerTimeout.
	BreakerFailures uint32
	BreakerTimeout  time.Duration

	Logger *zap.Logger
}

// ChatClient answers prompts through chat completions behind a rate limiter
// and a circuit breaker.
type ChatClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
	logger      *zap.Logger
}

// NewChatClient creates a chat client.
func NewChatClient(cfg *ChatConfig) *ChatClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 3
	}
	breakerTimeout := cfg.BreakerTimeout
	if breakerTimeout <= 0 {
		breakerTimeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "llm",
		MaxRequests: 1,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &ChatClient{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		limiter:     limiter,
		breaker:     breaker,
		logger:      logger,
	}
}

// Complete sends prompt as a single user message and returns the reply text.
func (c *ChatClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.limiter != nil && !c.limiter.Allow() {
		metrics.LLMRequestsTotal.WithLabelValues("rate_limited").Inc()
		return "", fmt.Errorf("llm call: %w", domain.ErrRateLimited)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := c.breaker.Execute(func() (any, error) {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			Temperature: c.temperature,
			MaxTokens:   c.maxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			return nil, parseChatError(err)
		}
		return resp, nil
	})
	metrics.LLMRequestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.LLMRequestsTotal.WithLabelValues("circuit_open").Inc()
			return "", fmt.Errorf("llm circuit %s: %w", c.breaker.State(), domain.ErrLLMUnavailable)
		}
		metrics.LLMRequestsTotal.WithLabelValues("error").Inc()
		return "", err
	}

	resp, ok := out.(openai.ChatCompletionResponse)
	if !ok || len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues("empty").Inc()
		return "", fmt.Errorf("no choices in completion: %w", domain.ErrLLMResponse)
	}

	metrics.LLMRequestsTotal.WithLabelValues("success").Inc()
	domain.UsageFromContext(ctx).AddLLMTokens(resp.Usage.TotalTokens)
	c.logger.Debug("llm completion",
		zap.String("model", c.model),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("duration", time.Since(start)))

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck reports the model unavailable while the circuit is open, and
// otherwise lists models on the provider.
func (c *ChatClient) HealthCheck(ctx context.Context) error {
	if c.breaker.State() == gobreaker.StateOpen {
		return fmt.Errorf("llm circuit open: %w", domain.ErrLLMUnavailable)
	}
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseChatError maps provider failures onto domain errors. 429 becomes
// ErrRateLimited; everything else is ErrLLMUnavailable.
func parseChatError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("llm API error %d: %w", reqErr.HTTPStatusCode, domain.ErrRateLimited)
		}
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("llm API error %d: %s: %w", reqErr.HTTPStatusCode, detail, domain.ErrLLMUnavailable)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("llm API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, domain.ErrRateLimited)
		}
		return fmt.Errorf("llm API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, domain.ErrLLMUnavailable)
	}

	return fmt.Errorf("llm request failed: %v: %w", err, domain.ErrLLMUnavailable)
}
