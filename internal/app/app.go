// Package app assembles rosterdex from configuration. It is the composition
// root shared by the API server and the CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/rosterdex/internal/config"
	"github.com/kailas-cloud/rosterdex/internal/db"
	dbRedis "github.com/kailas-cloud/rosterdex/internal/db/redis"
	"github.com/kailas-cloud/rosterdex/internal/domain"
	"github.com/kailas-cloud/rosterdex/internal/metrics"
	"github.com/kailas-cloud/rosterdex/internal/repository/embcache"
	rosterrepo "github.com/kailas-cloud/rosterdex/internal/repository/roster"
	semanticrepo "github.com/kailas-cloud/rosterdex/internal/repository/semantic"
	openaiTransport "github.com/kailas-cloud/rosterdex/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/rosterdex/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/rosterdex/internal/usecase/health"
	"github.com/kailas-cloud/rosterdex/internal/usecase/reindex"
	"github.com/kailas-cloud/rosterdex/internal/usecase/route"
	searchuc "github.com/kailas-cloud/rosterdex/internal/usecase/search"
	"github.com/kailas-cloud/rosterdex/internal/usecase/semantic"
)

const embeddingProvider = "openai"

// App holds the wired services.
type App struct {
	Roster  *rosterrepo.Repo
	Index   *semanticrepo.Repo
	Router  *route.Router
	Search  *searchuc.Service
	Health  *healthuc.Service
	Reindex *reindex.Service

	store  db.Store
	logger *zap.Logger
}

// New connects to the roster database and Redis and wires every service.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	rosterRepo, err := rosterrepo.Open(cfg.Roster.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		_ = rosterRepo.Close()
		return nil, fmt.Errorf("create redis store: %w", err)
	}
	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		store.Close()
		_ = rosterRepo.Close()
		return nil, fmt.Errorf("redis not ready: %w", err)
	}
	logger.Info("Connected to database", zap.Strings("addrs", cfg.Database.Addrs))

	base := buildEmbedder(cfg, store, logger)
	queryEmbedder := withInstruction(base, cfg.Embedding.QueryInstruction)
	docEmbedder := withInstruction(base, cfg.Embedding.DocumentInstruction)

	indexCfg := semanticrepo.IndexConfig{
		Name:        cfg.Index.Name,
		Prefix:      cfg.Index.KeyPrefix,
		Dimensions:  cfg.Embedding.Dimensions,
		Algorithm:   cfg.Index.Algorithm,
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	}
	index := semanticrepo.New(store, queryEmbedder, indexCfg, logger)

	completer, chat := buildCompleter(cfg, logger)
	router := route.New(completer, cfg.Search.StructuredLimit, logger)

	searchSvc := searchuc.New(router, rosterRepo, semantic.NewAdapter(index, logger), searchuc.Options{
		SemanticTopK:      cfg.Search.SemanticTopK,
		StructuredTimeout: cfg.Search.StructuredTimeout(),
		SemanticTimeout:   cfg.Search.SemanticTimeout(),
	}, logger)

	// Nil interfaces, not typed nil pointers, keep optional checks disabled.
	var llmChecker healthuc.Checker
	if chat != nil {
		llmChecker = chat
	}
	healthSvc := healthuc.New(rosterRepo, store, base, llmChecker)

	logger.Info("Services wired",
		zap.String("roster", cfg.Roster.Path),
		zap.String("index", cfg.Index.Name),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.Bool("llm_fallback", chat != nil),
	)

	return &App{
		Roster:  rosterRepo,
		Index:   index,
		Router:  router,
		Search:  searchSvc,
		Health:  healthSvc,
		Reindex: reindex.New(rosterRepo, index, docEmbedder, logger),
		store:   store,
		logger:  logger,
	}, nil
}

// NewRouter builds only the intent router. It needs no database.
func NewRouter(cfg *config.Config, logger *zap.Logger) *route.Router {
	metrics.RegisterSearchMetrics()
	completer, _ := buildCompleter(cfg, logger)
	return route.New(completer, cfg.Search.StructuredLimit, logger)
}

// Close releases the database handles.
func (a *App) Close() {
	a.store.Close()
	if err := a.Roster.Close(); err != nil {
		a.logger.Warn("Failed to close roster", zap.Error(err))
	}
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented.
// Instructions are applied outermost so cache keys include them.
func buildEmbedder(cfg *config.Config, store db.KVStore, logger *zap.Logger) *embeddinguc.InstrumentedEmbedder {
	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   embeddingProvider,
		Logger:     logger,
	})

	cached := embcache.New(base, store, cfg.Index.CacheTTL(), metrics.EmbeddingCacheTotal, logger)

	return embeddinguc.NewInstrumentedEmbedder(cached, embeddingProvider, cfg.Embedding.Model, logger)
}

func withInstruction(e domain.Embedder, instruction string) domain.Embedder {
	if instruction == "" {
		return e
	}
	return domain.NewInstructionEmbedder(e, instruction)
}

// buildCompleter returns a nil Completer when no model is configured.
func buildCompleter(cfg *config.Config, logger *zap.Logger) (route.Completer, *openaiTransport.ChatClient) {
	if !cfg.LLM.Enabled() {
		return nil, nil
	}
	chat := openaiTransport.NewChatClient(&openaiTransport.ChatConfig{
		APIKey:          cfg.LLM.APIKey,
		BaseURL:         cfg.LLM.BaseURL,
		Model:           cfg.LLM.Model,
		Temperature:     cfg.LLM.Temperature,
		MaxTokens:       cfg.LLM.MaxTokens,
		Timeout:         cfg.LLM.Timeout(),
		RatePerSecond:   cfg.LLM.RatePerSecond,
		Burst:           cfg.LLM.Burst,
		BreakerFailures: cfg.LLM.BreakerFailures,
		BreakerTimeout:  cfg.LLM.BreakerOpen(),
		Logger:          logger,
	})
	return chat, chat
}
