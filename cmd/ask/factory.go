package ask

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/Taichi-iskw/yt-tutor/internal/config"
	historyrepo "github.com/Taichi-iskw/yt-tutor/internal/repository/history"
	indexrepo "github.com/Taichi-iskw/yt-tutor/internal/repository/index"
	"github.com/Taichi-iskw/yt-tutor/internal/repository/ingestcache"
	"github.com/Taichi-iskw/yt-tutor/internal/service/common"
	"github.com/Taichi-iskw/yt-tutor/internal/service/extract"
	indexsvc "github.com/Taichi-iskw/yt-tutor/internal/service/index"
	"github.com/Taichi-iskw/yt-tutor/internal/service/ingest"
	"github.com/Taichi-iskw/yt-tutor/internal/service/retrieval"
	"github.com/Taichi-iskw/yt-tutor/internal/service/tutor"
)

// ServiceFactory creates fully wired tutoring service instances
type ServiceFactory struct{}

// NewServiceFactory creates a new service factory
func NewServiceFactory() *ServiceFactory {
	return &ServiceFactory{}
}

// CreateService builds the tutoring service with all dependencies. The model
// clients are constructed here once and passed down explicitly.
func (f *ServiceFactory) CreateService(ctx context.Context) (tutor.Service, func(), error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	dbPool, err := config.NewDatabasePool(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	chatLLM, err := ollama.New(
		ollama.WithServerURL(cfg.OllamaHost),
		ollama.WithModel(cfg.ChatModel),
	)
	if err != nil {
		dbPool.Close()
		return nil, nil, fmt.Errorf("failed to create chat model client: %w", err)
	}

	embedLLM, err := ollama.New(
		ollama.WithServerURL(cfg.OllamaHost),
		ollama.WithModel(cfg.EmbedModel),
	)
	if err != nil {
		dbPool.Close()
		return nil, nil, fmt.Errorf("failed to create embedding model client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(embedLLM)
	if err != nil {
		dbPool.Close()
		return nil, nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	// Repositories
	idxRepo := indexrepo.NewRepository(dbPool)
	cacheRepo := ingestcache.NewRepository(dbPool)
	histRepo := historyrepo.NewRepository(dbPool)

	// Services
	cmdRunner := common.NewCmdRunner()
	extractor := extract.NewExtractor(cmdRunner)
	builder := indexsvc.NewBuilder(embedder, idxRepo)
	ingestService := ingest.NewService(cacheRepo, extractor, builder)
	retriever := retrieval.NewRetriever(embedder, idxRepo)
	composer := retrieval.NewComposer(retriever, idxRepo)

	tutorService := tutor.NewService(ingestService, composer, histRepo, chatLLM)

	cleanup := func() {
		dbPool.Close()
	}

	return tutorService, cleanup, nil
}
