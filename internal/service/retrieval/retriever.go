package retrieval

import (
	"context"

	"github.com/tmc/langchaingo/embeddings"

	"github.com/Taichi-iskw/yt-tutor/internal/errors"
	"github.com/Taichi-iskw/yt-tutor/internal/model"
	indexrepo "github.com/Taichi-iskw/yt-tutor/internal/repository/index"
)

// speechShare is the target fraction of speech snippets in a blended result
const speechShare = 0.7

// Retriever returns a blended candidate set for a query, favoring speech over
// visual snippets at a fixed ratio with scarcity backfill
type Retriever interface {
	Retrieve(ctx context.Context, indexHandle, query string, k int) (*model.RetrievalResult, error)
}

// priorityRetriever implements Retriever over the vector index
type priorityRetriever struct {
	embedder embeddings.Embedder
	repo     indexrepo.Repository
}

// NewRetriever creates a new priority Retriever
func NewRetriever(embedder embeddings.Embedder, repo indexrepo.Repository) Retriever {
	return &priorityRetriever{
		embedder: embedder,
		repo:     repo,
	}
}

// Retrieve over-fetches 2k candidates, partitions them by source preserving
// similarity order, then blends them at the speech:visual target ratio.
// If one bucket cannot fill its quota the shortfall goes to the other, the two
// directions checked in a fixed order. When fewer than k candidates exist in
// total, all of them are returned.
func (r *priorityRetriever) Retrieve(ctx context.Context, indexHandle, query string, k int) (*model.RetrievalResult, error) {
	if k <= 0 {
		return nil, errors.New(errors.CodeInvalidArg, "k must be positive")
	}

	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeExternal, "failed to embed query")
	}

	candidates, err := r.repo.Search(ctx, indexHandle, vector, 2*k)
	if err != nil {
		return nil, err
	}

	var speech, visual []*model.ScoredSnippet
	for _, c := range candidates {
		if c.Snippet.Source == model.SourceSpeech {
			speech = append(speech, c)
		} else {
			visual = append(visual, c)
		}
	}

	speechQuota := int(float64(k) * speechShare)
	visualQuota := k - speechQuota

	selectedSpeech := takeTop(speech, speechQuota)
	selectedVisual := takeTop(visual, visualQuota)

	// Scarcity backfill. The two directions are evaluated in this order on
	// purpose; keep the documented behavior.
	if len(selectedSpeech) < speechQuota {
		shortfall := speechQuota - len(selectedSpeech)
		selectedVisual = takeTop(visual, visualQuota+shortfall)
	}
	if len(selectedVisual) < visualQuota {
		shortfall := visualQuota - len(selectedVisual)
		selectedSpeech = takeTop(speech, speechQuota+shortfall)
	}

	return &model.RetrievalResult{
		Speech: selectedSpeech,
		Visual: selectedVisual,
	}, nil
}

// takeTop returns up to n entries from the head of a ranked bucket
func takeTop(bucket []*model.ScoredSnippet, n int) []*model.ScoredSnippet {
	if n < 0 {
		n = 0
	}
	if len(bucket) < n {
		n = len(bucket)
	}
	return bucket[:n]
}
