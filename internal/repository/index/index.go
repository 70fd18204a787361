package index

import (
	"context"

	"github.com/Taichi-iskw/yt-tutor/internal/model"
)

// Repository defines persistence operations for per-video snippet indexes.
// An index is identified by a generated opaque handle and is read-only after
// its snippets are inserted; re-ingesting a video creates a new index.
type Repository interface {
	// CreateIndex registers a new, initially empty index for a video
	CreateIndex(ctx context.Context, handle, videoID string) error
	// InsertSnippets stores embedded snippets under an index. vectors[i] is the
	// embedding for snippets[i].
	InsertSnippets(ctx context.Context, handle string, snippets []*model.Snippet, vectors [][]float32) error
	// Search runs cosine-similarity search over one index and returns up to
	// limit snippets ranked best-first
	Search(ctx context.Context, handle string, vector []float32, limit int) ([]*model.ScoredSnippet, error)
	// SpeechInWindow scans speech snippets whose start or end falls inside
	// [from, to], ordered by start time
	SpeechInWindow(ctx context.Context, handle string, from, to float64) ([]*model.Snippet, error)
	// VisualNearTimestamp scans visual snippets whose interval overlaps
	// [timestamp-window, timestamp+window] or whose start lies within window
	// seconds of the timestamp, ordered by start time
	VisualNearTimestamp(ctx context.Context, handle string, timestamp, window float64) ([]*model.Snippet, error)
	// DeleteByHandle removes an index and all its snippets
	DeleteByHandle(ctx context.Context, handle string) error
}
