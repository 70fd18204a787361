//go:build integration

package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taichi-iskw/yt-tutor/internal/model"
	"github.com/Taichi-iskw/yt-tutor/internal/repository/common"
)

func TestIndexRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool := common.SetupTestDB(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	handle := "11111111-1111-1111-1111-111111111111"
	require.NoError(t, repo.CreateIndex(ctx, handle, "dQw4w9WgXcQ"))

	snippets := []*model.Snippet{
		{Text: "the gradient points uphill", Start: 60, End: 66, Source: model.SourceSpeech, VideoID: "dQw4w9WgXcQ"},
		{Text: "we step against it to minimize", Start: 120, End: 127, Source: model.SourceSpeech, VideoID: "dQw4w9WgXcQ"},
		{Text: "w := w - lr * grad(L) shown on slide", Start: 64, End: 72, Source: model.SourceVisual, VideoID: "dQw4w9WgXcQ"},
	}
	vectors := [][]float32{
		embedAt(0),
		embedAt(1),
		embedAt(2),
	}
	require.NoError(t, repo.InsertSnippets(ctx, handle, snippets, vectors))

	t.Run("search ranks by similarity", func(t *testing.T) {
		results, err := repo.Search(ctx, handle, embedAt(0), 10)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "the gradient points uphill", results[0].Snippet.Text)
		assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	})

	t.Run("speech window excludes visual and out-of-window snippets", func(t *testing.T) {
		found, err := repo.SpeechInWindow(ctx, handle, 55, 100)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, model.SourceSpeech, found[0].Source)
		assert.Equal(t, 60.0, found[0].Start)
	})

	t.Run("visual lookup near timestamp", func(t *testing.T) {
		found, err := repo.VisualNearTimestamp(ctx, handle, 70, 45)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, model.SourceVisual, found[0].Source)
	})

	t.Run("delete cascades to snippets", func(t *testing.T) {
		require.NoError(t, repo.DeleteByHandle(ctx, handle))

		results, err := repo.Search(ctx, handle, embedAt(0), 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

// embedAt returns a 768-dim one-hot vector, giving deterministic cosine ranks
func embedAt(hot int) []float32 {
	v := make([]float32, 768)
	v[hot] = 1
	return v
}
