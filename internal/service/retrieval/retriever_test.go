package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Taichi-iskw/yt-tutor/internal/model"
)

// mockIndexRepository for testing
type mockIndexRepository struct {
	mock.Mock
}

func (m *mockIndexRepository) CreateIndex(ctx context.Context, handle, videoID string) error {
	args := m.Called(ctx, handle, videoID)
	return args.Error(0)
}

func (m *mockIndexRepository) InsertSnippets(ctx context.Context, handle string, snippets []*model.Snippet, vectors [][]float32) error {
	args := m.Called(ctx, handle, snippets, vectors)
	return args.Error(0)
}

func (m *mockIndexRepository) Search(ctx context.Context, handle string, vector []float32, limit int) ([]*model.ScoredSnippet, error) {
	args := m.Called(ctx, handle, vector, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ScoredSnippet), args.Error(1)
}

func (m *mockIndexRepository) SpeechInWindow(ctx context.Context, handle string, from, to float64) ([]*model.Snippet, error) {
	args := m.Called(ctx, handle, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Snippet), args.Error(1)
}

func (m *mockIndexRepository) VisualNearTimestamp(ctx context.Context, handle string, timestamp, window float64) ([]*model.Snippet, error) {
	args := m.Called(ctx, handle, timestamp, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Snippet), args.Error(1)
}

func (m *mockIndexRepository) DeleteByHandle(ctx context.Context, handle string) error {
	args := m.Called(ctx, handle)
	return args.Error(0)
}

// fakeEmbedder returns fixed vectors without calling any backend
type fakeEmbedder struct {
	queryVector []float32
}

func (f *fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{0.1, 0.2, 0.3}
	}
	return vectors, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return f.queryVector, nil
}

// scored builds a ranked candidate list alternating between sources
func scored(source model.Source, count int, scoreBase float64) []*model.ScoredSnippet {
	out := make([]*model.ScoredSnippet, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, &model.ScoredSnippet{
			Snippet: &model.Snippet{
				Text:   string(source),
				Start:  float64(i * 10),
				End:    float64(i*10 + 5),
				Source: source,
			},
			Score: scoreBase - float64(i)*0.01,
		})
	}
	return out
}

func TestRetriever_BlendsAtTargetRatio(t *testing.T) {
	repo := new(mockIndexRepository)
	embedder := &fakeEmbedder{queryVector: []float32{1, 2, 3}}

	// Plenty of both sources: expect 7 speech and 3 visual for k=10
	candidates := append(scored(model.SourceSpeech, 12, 0.9), scored(model.SourceVisual, 8, 0.8)...)
	repo.On("Search", mock.Anything, "handle-1", []float32{1, 2, 3}, 20).
		Return(candidates, nil)

	retriever := NewRetriever(embedder, repo)
	result, err := retriever.Retrieve(context.Background(), "handle-1", "what is backprop?", 10)

	require.NoError(t, err)
	assert.Len(t, result.Speech, 7)
	assert.Len(t, result.Visual, 3)
	repo.AssertExpectations(t)
}

func TestRetriever_BackfillsFromVisualWhenSpeechScarce(t *testing.T) {
	repo := new(mockIndexRepository)
	embedder := &fakeEmbedder{queryVector: []float32{1, 2, 3}}

	// Only 2 speech candidates: the 5 missing speech slots go to visual
	candidates := append(scored(model.SourceSpeech, 2, 0.9), scored(model.SourceVisual, 15, 0.8)...)
	repo.On("Search", mock.Anything, "handle-1", mock.Anything, 20).
		Return(candidates, nil)

	retriever := NewRetriever(embedder, repo)
	result, err := retriever.Retrieve(context.Background(), "handle-1", "what is on screen?", 10)

	require.NoError(t, err)
	assert.Len(t, result.Speech, 2)
	assert.Len(t, result.Visual, 8)
	assert.Len(t, result.All(), 10)
}

func TestRetriever_BackfillsFromSpeechWhenVisualScarce(t *testing.T) {
	repo := new(mockIndexRepository)
	embedder := &fakeEmbedder{queryVector: []float32{1, 2, 3}}

	// Only 1 visual candidate: the 2 missing visual slots go to speech
	candidates := append(scored(model.SourceSpeech, 15, 0.9), scored(model.SourceVisual, 1, 0.8)...)
	repo.On("Search", mock.Anything, "handle-1", mock.Anything, 20).
		Return(candidates, nil)

	retriever := NewRetriever(embedder, repo)
	result, err := retriever.Retrieve(context.Background(), "handle-1", "what did he say?", 10)

	require.NoError(t, err)
	assert.Len(t, result.Speech, 9)
	assert.Len(t, result.Visual, 1)
	assert.Len(t, result.All(), 10)
}

func TestRetriever_ReturnsAllWhenFewerThanK(t *testing.T) {
	repo := new(mockIndexRepository)
	embedder := &fakeEmbedder{queryVector: []float32{1, 2, 3}}

	candidates := append(scored(model.SourceSpeech, 3, 0.9), scored(model.SourceVisual, 2, 0.8)...)
	repo.On("Search", mock.Anything, "handle-1", mock.Anything, 20).
		Return(candidates, nil)

	retriever := NewRetriever(embedder, repo)
	result, err := retriever.Retrieve(context.Background(), "handle-1", "short video", 10)

	require.NoError(t, err)
	assert.Len(t, result.Speech, 3)
	assert.Len(t, result.Visual, 2)
}

func TestRetriever_EmptyIndex(t *testing.T) {
	repo := new(mockIndexRepository)
	embedder := &fakeEmbedder{queryVector: []float32{1, 2, 3}}

	repo.On("Search", mock.Anything, "handle-1", mock.Anything, 20).
		Return([]*model.ScoredSnippet{}, nil)

	retriever := NewRetriever(embedder, repo)
	result, err := retriever.Retrieve(context.Background(), "handle-1", "anything", 10)

	require.NoError(t, err)
	assert.Empty(t, result.Speech)
	assert.Empty(t, result.Visual)
}

func TestRetriever_PreservesSimilarityOrderWithinSources(t *testing.T) {
	repo := new(mockIndexRepository)
	embedder := &fakeEmbedder{queryVector: []float32{1, 2, 3}}

	candidates := append(scored(model.SourceSpeech, 10, 0.9), scored(model.SourceVisual, 10, 0.8)...)
	repo.On("Search", mock.Anything, "handle-1", mock.Anything, 20).
		Return(candidates, nil)

	retriever := NewRetriever(embedder, repo)
	result, err := retriever.Retrieve(context.Background(), "handle-1", "anything", 10)

	require.NoError(t, err)
	for i := 1; i < len(result.Speech); i++ {
		assert.GreaterOrEqual(t, result.Speech[i-1].Score, result.Speech[i].Score)
	}
	for i := 1; i < len(result.Visual); i++ {
		assert.GreaterOrEqual(t, result.Visual[i-1].Score, result.Visual[i].Score)
	}
}

func TestRetriever_RejectsNonPositiveK(t *testing.T) {
	retriever := NewRetriever(&fakeEmbedder{}, new(mockIndexRepository))

	_, err := retriever.Retrieve(context.Background(), "handle-1", "anything", 0)

	assert.Error(t, err)
}
