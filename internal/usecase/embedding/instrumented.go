package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/rosterdex/internal/domain"
)

// DefaultMaxAPIBatchSize is the largest batch sent in one provider request.
const DefaultMaxAPIBatchSize = 256

// InstrumentedEmbedder logs embedding calls and splits large batches into
// provider-sized chunks. Transport metrics are recorded in transport/openai.
type InstrumentedEmbedder struct {
	inner     domain.Embedder
	provider  string
	model     string
	chunkSize int
	logger    *zap.Logger
}

// NewInstrumentedEmbedder wraps an embedder with chunking and logging.
func NewInstrumentedEmbedder(
	inner domain.Embedder, provider, model string, logger *zap.Logger,
) *InstrumentedEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedEmbedder{
		inner:     inner,
		provider:  provider,
		model:     model,
		chunkSize: DefaultMaxAPIBatchSize,
		logger:    logger,
	}
}

// WithChunkSize overrides the per-request batch size.
func (p *InstrumentedEmbedder) WithChunkSize(n int) *InstrumentedEmbedder {
	if n > 0 {
		p.chunkSize = n
	}
	return p
}

// Embed delegates to the inner embedder and logs the outcome.
func (p *InstrumentedEmbedder) Embed(
	ctx context.Context, text string,
) (domain.EmbeddingResult, error) {
	start := time.Now()

	result, err := p.inner.Embed(ctx, text)

	duration := time.Since(start)

	if err != nil {
		p.logger.Error("Embedding request failed",
			zap.String("provider", p.provider),
			zap.String("model", p.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}

	p.logger.Debug("Embedding request completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Int("dimensions", len(result.Embedding)),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}

// BatchEmbed splits texts into chunks and delegates each to the inner embedder.
func (p *InstrumentedEmbedder) BatchEmbed(
	ctx context.Context, texts []string,
) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	start := time.Now()

	result, err := p.embedChunked(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, err
	}

	p.logger.Debug("Batch embedding completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("batch_size", len(texts)),
		zap.Int("total_tokens", result.TotalTokens),
	)

	return result, nil
}

// HealthCheck forwards to the inner embedder when it supports health checks.
func (p *InstrumentedEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := p.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

func (p *InstrumentedEmbedder) embedChunked(
	ctx context.Context, texts []string,
) (domain.BatchEmbeddingResult, error) {
	all := make([][]float32, 0, len(texts))
	var totalPrompt, totalTokens int

	for offset := 0; offset < len(texts); offset += p.chunkSize {
		if err := ctx.Err(); err != nil {
			return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed (chunk %d): %w", offset, err)
		}

		end := min(offset+p.chunkSize, len(texts))
		chunk := texts[offset:end]

		chunkResult, err := domain.BatchEmbed(ctx, p.inner, chunk)
		if err != nil {
			p.logger.Error("Batch embedding request failed",
				zap.String("provider", p.provider),
				zap.String("model", p.model),
				zap.Int("chunk_offset", offset),
				zap.Int("chunk_size", len(chunk)),
				zap.Error(err),
			)
			return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
		}
		if len(chunkResult.Embeddings) != len(chunk) {
			return domain.BatchEmbeddingResult{}, fmt.Errorf(
				"%w: got %d vectors for %d texts", domain.ErrEmbeddingProviderError,
				len(chunkResult.Embeddings), len(chunk),
			)
		}

		all = append(all, chunkResult.Embeddings...)
		totalPrompt += chunkResult.PromptTokens
		totalTokens += chunkResult.TotalTokens
	}

	return domain.BatchEmbeddingResult{
		Embeddings:   all,
		PromptTokens: totalPrompt,
		TotalTokens:  totalTokens,
	}, nil
}
