package index

import (
	"context"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/embeddings"

	"github.com/Taichi-iskw/yt-tutor/internal/errors"
	"github.com/Taichi-iskw/yt-tutor/internal/model"
	indexrepo "github.com/Taichi-iskw/yt-tutor/internal/repository/index"
)

// Builder embeds extracted snippets and persists them as a new per-video index.
// Building is a pure function of the snippet list; the returned handle is a
// generated opaque identifier.
type Builder interface {
	Build(ctx context.Context, videoID string, snippets []*model.Snippet) (string, error)
}

// builder implements Builder on top of an embeddings client and the index repository
type builder struct {
	embedder embeddings.Embedder
	repo     indexrepo.Repository
}

// NewBuilder creates a new Builder
func NewBuilder(embedder embeddings.Embedder, repo indexrepo.Repository) Builder {
	return &builder{
		embedder: embedder,
		repo:     repo,
	}
}

// Build embeds every snippet and stores the index. Zero snippets still produce
// an empty-but-valid index; the context composer detects "no usable context"
// at query time instead.
func (b *builder) Build(ctx context.Context, videoID string, snippets []*model.Snippet) (string, error) {
	if videoID == "" {
		return "", errors.New(errors.CodeInvalidArg, "video ID is required")
	}

	handle := uuid.NewString()
	if err := b.repo.CreateIndex(ctx, handle, videoID); err != nil {
		return "", err
	}

	if len(snippets) == 0 {
		return handle, nil
	}

	texts := make([]string, len(snippets))
	for i, s := range snippets {
		texts[i] = s.Text
	}

	vectors, err := b.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeExternal, "failed to embed snippets")
	}
	if len(vectors) != len(snippets) {
		return "", errors.New(errors.CodeExternal, "embedding backend returned wrong vector count")
	}

	if err := b.repo.InsertSnippets(ctx, handle, snippets, vectors); err != nil {
		return "", err
	}

	return handle, nil
}
