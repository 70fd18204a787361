package ingest

import (
	"context"
	"log/slog"

	"github.com/Taichi-iskw/yt-tutor/internal/errors"
	"github.com/Taichi-iskw/yt-tutor/internal/model"
	"github.com/Taichi-iskw/yt-tutor/internal/repository/ingestcache"
	"github.com/Taichi-iskw/yt-tutor/internal/service/extract"
	indexsvc "github.com/Taichi-iskw/yt-tutor/internal/service/index"
)

// Service guarantees at-most-once ingestion per (user, chat, video URL) key:
// the first request extracts and indexes, later requests reuse the handle.
//
// Two concurrent first-time ingestions of the same key may both build; the
// second cache write overwrites the first with an equivalent handle, so the
// race wastes work but never corrupts state. No lock is taken on purpose.
type Service interface {
	EnsureIndex(ctx context.Context, userID, chatID, videoURL string) (*model.IngestResult, error)
}

// service implements Service
type service struct {
	cache     ingestcache.Repository
	extractor extract.Extractor
	builder   indexsvc.Builder
	logger    *slog.Logger
}

// NewService creates a new ingest Service
func NewService(cache ingestcache.Repository, extractor extract.Extractor, builder indexsvc.Builder) Service {
	return &service{
		cache:     cache,
		extractor: extractor,
		builder:   builder,
		logger:    slog.Default(),
	}
}

// EnsureIndex returns the index handle for a video in a chat, building it on
// first sight
func (s *service) EnsureIndex(ctx context.Context, userID, chatID, videoURL string) (*model.IngestResult, error) {
	if userID == "" || chatID == "" {
		return nil, errors.New(errors.CodeInvalidArg, "user ID and chat ID are required")
	}
	if videoURL == "" {
		return nil, errors.New(errors.CodeInvalidArg, "video URL is required")
	}

	videoID, err := extract.ParseVideoID(videoURL)
	if err != nil {
		return nil, err
	}

	handle, err := s.cache.Get(ctx, userID, chatID, videoURL)
	if err == nil {
		return &model.IngestResult{IndexHandle: handle, VideoID: videoID, Reused: true}, nil
	}
	if !errors.HasCode(err, errors.CodeNotFound) {
		return nil, err
	}

	extraction, err := s.extractor.Extract(ctx, videoURL)
	if err != nil {
		return nil, err
	}

	if len(extraction.Speech) == 0 {
		s.logger.Warn("ingesting without transcript, answer quality will be degraded",
			"video_id", extraction.VideoID,
			"visual_snippets", len(extraction.Visual))
	}

	snippets := make([]*model.Snippet, 0, len(extraction.Speech)+len(extraction.Visual))
	snippets = append(snippets, extraction.Speech...)
	snippets = append(snippets, extraction.Visual...)

	handle, err = s.builder.Build(ctx, extraction.VideoID, snippets)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Save(ctx, userID, chatID, videoURL, handle); err != nil {
		return nil, err
	}

	return &model.IngestResult{IndexHandle: handle, VideoID: extraction.VideoID, Reused: false}, nil
}
