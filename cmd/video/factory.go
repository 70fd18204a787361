package video

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/Taichi-iskw/yt-tutor/internal/config"
	indexrepo "github.com/Taichi-iskw/yt-tutor/internal/repository/index"
	"github.com/Taichi-iskw/yt-tutor/internal/repository/ingestcache"
	"github.com/Taichi-iskw/yt-tutor/internal/service/common"
	"github.com/Taichi-iskw/yt-tutor/internal/service/extract"
	indexsvc "github.com/Taichi-iskw/yt-tutor/internal/service/index"
	"github.com/Taichi-iskw/yt-tutor/internal/service/ingest"
)

// ServiceFactory creates ingest service instances
type ServiceFactory struct{}

// NewServiceFactory creates a new service factory
func NewServiceFactory() *ServiceFactory {
	return &ServiceFactory{}
}

// CreateService builds the ingest service with all dependencies
func (f *ServiceFactory) CreateService(ctx context.Context) (ingest.Service, func(), error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	dbPool, err := config.NewDatabasePool(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
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

	idxRepo := indexrepo.NewRepository(dbPool)
	cacheRepo := ingestcache.NewRepository(dbPool)

	cmdRunner := common.NewCmdRunner()
	extractor := extract.NewExtractor(cmdRunner)
	builder := indexsvc.NewBuilder(embedder, idxRepo)
	ingestService := ingest.NewService(cacheRepo, extractor, builder)

	cleanup := func() {
		dbPool.Close()
	}

	return ingestService, cleanup, nil
}
