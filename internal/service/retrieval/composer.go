package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/Taichi-iskw/yt-tutor/internal/model"
	indexrepo "github.com/Taichi-iskw/yt-tutor/internal/repository/index"
)

// DefaultRetrievalK is the candidate budget used when a query carries no timestamp
const DefaultRetrievalK = 15

// Composer assembles the prompt context for one question. A detected timestamp
// wins over general retrieval: the window around it is scanned directly instead
// of running similarity search.
type Composer interface {
	Compose(ctx context.Context, indexHandle, query string) (*model.ComposedContext, error)
}

// composer implements Composer
type composer struct {
	retriever Retriever
	repo      indexrepo.Repository
	window    int
	k         int
}

// NewComposer creates a Composer with default window and retrieval budget
func NewComposer(retriever Retriever, repo indexrepo.Repository) Composer {
	return NewComposerWithOptions(retriever, repo, DefaultWindow, DefaultRetrievalK)
}

// NewComposerWithOptions creates a Composer with custom window and retrieval budget
func NewComposerWithOptions(retriever Retriever, repo indexrepo.Repository, window, k int) Composer {
	return &composer{
		retriever: retriever,
		repo:      repo,
		window:    window,
		k:         k,
	}
}

// Compose builds the speech and visual context blocks for a query. Both blocks
// empty means the video has nothing relevant; callers short-circuit to the
// fixed no-context answer without touching the LLM.
func (c *composer) Compose(ctx context.Context, indexHandle, query string) (*model.ComposedContext, error) {
	timestamp, hasTimestamp := ResolveTimestamp(query)

	var speech, visual []*model.Snippet
	var err error

	if hasTimestamp {
		from := float64(timestamp - c.window)
		to := float64(timestamp + c.window)

		speech, err = c.repo.SpeechInWindow(ctx, indexHandle, from, to)
		if err != nil {
			return nil, err
		}
		visual, err = c.repo.VisualNearTimestamp(ctx, indexHandle, float64(timestamp), float64(c.window))
		if err != nil {
			return nil, err
		}
	} else {
		result, rerr := c.retriever.Retrieve(ctx, indexHandle, query, c.k)
		if rerr != nil {
			return nil, rerr
		}
		for _, s := range result.Speech {
			speech = append(speech, s.Snippet)
		}
		for _, v := range result.Visual {
			visual = append(visual, v.Snippet)
		}
	}

	composed := &model.ComposedContext{
		SpeechBlock: renderBlock(speech, "Speech"),
		VisualBlock: renderBlock(visual, "Screen"),
		Used:        append(append([]*model.Snippet{}, speech...), visual...),
	}
	if hasTimestamp {
		composed.Timestamp = &timestamp
	}
	return composed, nil
}

// renderBlock renders snippets as one line each, prefixed with a M:SS marker
// and the source label
func renderBlock(snippets []*model.Snippet, label string) string {
	if len(snippets) == 0 {
		return ""
	}
	lines := make([]string, 0, len(snippets))
	for _, s := range snippets {
		lines = append(lines, fmt.Sprintf("[%s - %s] %s", s.Marker(), label, s.Text))
	}
	return strings.Join(lines, "\n")
}
